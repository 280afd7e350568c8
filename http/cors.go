package httpx

import "net/http"

var corsHeaders = [...][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "GET, POST, OPTIONS"},
	{"Access-Control-Allow-Headers", "Content-Type"},
}

// CORS adds the cross-origin headers to every response next produces,
// right before its headers are sent. Error responses get them too.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &corsResponseWriter{ResponseWriter: w}
		next.ServeHTTP(cw, r)
		// A handler that never wrote still gets an implicit 200 from net/http.
		cw.injectHeaders()
	})
}

type corsResponseWriter struct {
	http.ResponseWriter
	injected bool
}

func (cw *corsResponseWriter) injectHeaders() {
	if cw.injected {
		return
	}
	cw.injected = true
	h := cw.ResponseWriter.Header()
	for _, kv := range corsHeaders {
		h.Set(kv[0], kv[1])
	}
}

func (cw *corsResponseWriter) WriteHeader(code int) {
	// 1xx responses are not final; the headers go out with the real status.
	if code >= 200 {
		cw.injectHeaders()
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *corsResponseWriter) Write(b []byte) (int, error) {
	cw.injectHeaders()
	return cw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (cw *corsResponseWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}
