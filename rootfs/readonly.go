package rootfs

import (
	"os"

	"github.com/go-git/go-billy/v5"
)

const writeFlags = os.O_WRONLY | os.O_RDWR | os.O_CREATE | os.O_TRUNC | os.O_APPEND

// ReadOnly wraps fs so that every mutating call fails with billy.ErrReadOnly.
// Change operations (chmod, chown, chtimes) are not exposed at all.
func ReadOnly(fs billy.Filesystem) billy.Filesystem {
	if ro, ok := fs.(readOnly); ok {
		return ro
	}
	return readOnly{Filesystem: fs}
}

type readOnly struct {
	billy.Filesystem
}

func (readOnly) Capabilities() billy.Capability {
	return billy.ReadCapability | billy.SeekCapability
}

func (readOnly) Create(string) (billy.File, error) {
	return nil, billy.ErrReadOnly
}

func (r readOnly) OpenFile(name string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&writeFlags != 0 {
		return nil, billy.ErrReadOnly
	}
	return r.Filesystem.OpenFile(name, flag, perm)
}

func (readOnly) Rename(string, string) error { return billy.ErrReadOnly }

func (readOnly) Remove(string) error { return billy.ErrReadOnly }

func (readOnly) MkdirAll(string, os.FileMode) error { return billy.ErrReadOnly }

func (readOnly) Symlink(string, string) error { return billy.ErrReadOnly }

func (readOnly) TempFile(string, string) (billy.File, error) {
	return nil, billy.ErrReadOnly
}

func (r readOnly) Chroot(path string) (billy.Filesystem, error) {
	fs, err := r.Filesystem.Chroot(path)
	if err != nil {
		return nil, err
	}
	return readOnly{Filesystem: fs}, nil
}
