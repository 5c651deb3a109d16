package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/vango-dev/pageroute/pkg/router"
)

// FS serves content from a file system.
type FS struct {
	fsys fs.FS
}

// NewFS creates a source over fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// NewDir creates a source over the directory dir.
func NewDir(dir string) *FS {
	return NewFS(os.DirFS(dir))
}

// Open reads the file named key. Keys are slash-separated and may not
// escape the root.
func (s *FS) Open(ctx context.Context, key string) (*router.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := path.Clean(strings.TrimPrefix(key, "/"))
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: key, Err: fs.ErrInvalid}
	}

	body, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &router.Content{Key: key, Body: body}, nil
}
