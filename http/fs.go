package httpx

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"

	"github.com/go-git/go-billy/v5"
)

// FileSystem exposes a billy filesystem to http.FileServer. Any lookup
// failure other than a permission error reads as "not exist", so paths
// that do not resolve under the root answer 404.
func FileSystem(root billy.Filesystem) http.FileSystem {
	return billyFS{root: root}
}

type billyFS struct {
	root billy.Filesystem
}

func (b billyFS) Open(name string) (http.File, error) {
	name = path.Clean("/" + name)
	fi, err := b.root.Stat(name)
	if err != nil {
		return nil, lookupError("stat", name, err)
	}
	if fi.IsDir() {
		return &dirFile{root: b.root, name: name, info: fi}, nil
	}
	f, err := b.root.Open(name)
	if err != nil {
		return nil, lookupError("open", name, err)
	}
	return &file{File: f, info: fi}, nil
}

func lookupError(op, name string, err error) error {
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
}

type file struct {
	billy.File
	info fs.FileInfo
}

func (f *file) Stat() (fs.FileInfo, error) {
	return f.info, nil
}

func (f *file) Readdir(int) ([]fs.FileInfo, error) {
	return nil, &fs.PathError{Op: "readdir", Path: f.Name(), Err: fs.ErrInvalid}
}

type dirFile struct {
	root    billy.Filesystem
	name    string
	info    fs.FileInfo
	entries []fs.FileInfo
	loaded  bool
	off     int
}

func (d *dirFile) Close() error { return nil }

func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *dirFile) Seek(offset int64, whence int) (int64, error) {
	if offset == 0 && whence == io.SeekStart {
		d.off = 0
		return 0, nil
	}
	return 0, &fs.PathError{Op: "seek", Path: d.name, Err: fs.ErrInvalid}
}

func (d *dirFile) Stat() (fs.FileInfo, error) {
	return d.info, nil
}

func (d *dirFile) Readdir(count int) ([]fs.FileInfo, error) {
	if !d.loaded {
		entries, err := d.root.ReadDir(d.name)
		if err != nil {
			return nil, err
		}
		d.entries, d.loaded = entries, true
	}
	rest := d.entries[d.off:]
	if count <= 0 {
		d.off = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if count > len(rest) {
		count = len(rest)
	}
	d.off += count
	return rest[:count], nil
}
