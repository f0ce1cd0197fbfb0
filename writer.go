package mist

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/juju/errors"
)

// Writer is the one abstraction GenerateFile uses to turn an evaluated
// value into bytes on disk. It is a narrow interface deliberately, so
// tests can substitute an in-memory filesystem instead of touching the
// real one.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// fsWriter implements Writer over a billy.Filesystem, the same
// filesystem abstraction package mlayout's directory loader is built
// on. Routing file output through billy rather than bare os calls lets
// NewFSWriter(memfs.New()) stand in for a real directory in tests.
type fsWriter struct {
	fs billy.Filesystem
}

// NewFSWriter wraps fs as a Writer.
func NewFSWriter(fs billy.Filesystem) Writer {
	return &fsWriter{fs: fs}
}

// NewOSWriter returns a Writer rooted at the real filesystem directory
// root, the common case for a CLI driver.
func NewOSWriter(root string) Writer {
	return NewFSWriter(osfs.New(root))
}

// WriteFile creates path's parent directories as needed and writes data.
func (w *fsWriter) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		if err := w.fs.MkdirAll(dir, 0o755); err != nil {
			return newError(KindCreateDirFailed, "writer", errors.Annotatef(err, "mkdir %q", dir))
		}
	}
	if err := util.WriteFile(w.fs, path, data, 0o644); err != nil {
		return newError(KindWriteFailed, "writer", errors.Annotatef(err, "write %q", path))
	}
	return nil
}
