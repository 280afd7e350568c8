package utils

import (
	"fmt"
	"net"
	"strconv"
)

// Port extracts the port number from a listener address such as ":8080",
// "0.0.0.0:69" or "[::]:2049".
func Port(addr string) (int, error) {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	return v, nil
}

// HostPort joins host and port, bracketing IPv6 literals.
func HostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
