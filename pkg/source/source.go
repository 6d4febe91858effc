package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// ErrTooLarge is returned by a limited source for files above its limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// BillySource reads files from a billy filesystem, such as an in-memory
// tree or a chroot below the scan root.
type BillySource struct {
	fs billy.Filesystem
}

// NewBilly creates a source that reads from fs.
func NewBilly(fs billy.Filesystem) *BillySource {
	return &BillySource{fs: fs}
}

// Read implements ContentSource.
func (b *BillySource) Read(path string) ([]byte, error) {
	return util.ReadFile(b.fs, path)
}

// LimitedSource wraps a source and rejects content larger than max bytes.
type LimitedSource struct {
	inner ContentSource
	max   int64
}

// NewLimited wraps inner. A max of zero or less disables the limit.
func NewLimited(inner ContentSource, max int64) ContentSource {
	if max <= 0 {
		return inner
	}
	return &LimitedSource{inner: inner, max: max}
}

// Read implements ContentSource.
func (l *LimitedSource) Read(path string) ([]byte, error) {
	if fs, ok := l.inner.(*FilesystemSource); ok {
		return fs.readLimited(path, l.max)
	}
	content, err := l.inner.Read(path)
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > l.max {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrTooLarge, path, len(content))
	}
	return content, nil
}

// readLimited stats before reading so oversized files are never loaded.
func (f *FilesystemSource) readLimited(path string, max int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > max {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrTooLarge, path, info.Size())
	}
	return io.ReadAll(io.LimitReader(file, max+1))
}
