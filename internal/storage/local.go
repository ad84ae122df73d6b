package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// localStorage keeps objects as plain files under a root directory.
type localStorage struct {
	root string
}

// NewLocal creates root if needed.
func NewLocal(root string) (Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("media root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &localStorage{root: abs}, nil
}

// resolve maps a key to a path inside root and rejects escapes.
func (l *localStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	p := filepath.Join(l.root, filepath.FromSlash(clean))
	if !strings.HasPrefix(p, l.root+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return p, nil
}

func (l *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	p, err := l.resolve(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, contextReader{ctx: ctx, r: r})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return ObjectInfo{}, fmt.Errorf("commit %s: %w", key, err)
	}

	st, err := os.Stat(p)
	if err != nil {
		return ObjectInfo{}, err
	}
	info := l.info(key, st)
	info.Size = n
	info.Metadata = opt.Metadata
	if opt.ContentType != "" {
		info.ContentType = opt.ContentType
	}
	return info, nil
}

func (l *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	p, err := l.resolve(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, ObjectInfo{}, mapFSErr(key, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	return f, l.info(key, st), nil
}

func (l *localStorage) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	p, err := l.resolve(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	st, err := os.Stat(p)
	if err != nil {
		return ObjectInfo{}, mapFSErr(key, err)
	}
	return l.info(key, st), nil
}

func (l *localStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := l.Stat(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrObjectNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (l *localStorage) Delete(ctx context.Context, key string) error {
	p, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	l.pruneEmpty(filepath.Dir(p))
	return nil
}

func (l *localStorage) Move(ctx context.Context, src, dst string) error {
	if src == dst {
		return nil
	}
	from, err := l.resolve(src)
	if err != nil {
		return err
	}
	to, err := l.resolve(dst)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	if err := os.Rename(from, to); err != nil {
		return mapFSErr(src, err)
	}
	l.pruneEmpty(filepath.Dir(from))
	return nil
}

func (l *localStorage) Ping(ctx context.Context) error {
	_, err := os.Stat(l.root)
	return err
}

// pruneEmpty removes dir and then its parent when they are empty, leaving
// the month and year folders tidy after a move. Errors are ignored.
func (l *localStorage) pruneEmpty(dir string) {
	for i := 0; i < 2 && dir != l.root && strings.HasPrefix(dir, l.root); i++ {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

func (l *localStorage) info(key string, st fs.FileInfo) ObjectInfo {
	ct := mime.TypeByExtension(path.Ext(key))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  ct,
		LastModified: st.ModTime(),
	}
}

func mapFSErr(key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return err
}

// contextReader stops a long copy once ctx is cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
