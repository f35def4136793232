package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// localStorage implements Storage on a plain directory. Files are write-once
// by construction (keys embed a content-hash prefix), so a second Put to the
// same key rewrites identical bytes.
type localStorage struct {
	root string
}

// NewLocal creates a Storage rooted at dir, creating the directory on demand.
func NewLocal(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &localStorage{root: dir}, nil
}

func (l *localStorage) path(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

// Put streams the reader's bytes to the destination path.
func (l *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error) {
	dest := l.path(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("create destination directory: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create destination file: %w", err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// A partial file may remain; ingestion reports the failure and the
		// next ingestion of the same content writes the same key again.
		return ObjectInfo{}, fmt.Errorf("copy to destination: %w", err)
	}
	return ObjectInfo{Key: key, Size: n}, nil
}

// Get opens the stored file for streaming reads.
func (l *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	f, err := os.Open(l.path(key))
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("open stored file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("stat stored file: %w", err)
	}
	return f, ObjectInfo{Key: key, Size: st.Size()}, nil
}

// Delete removes the stored file; a missing file is not an error.
func (l *localStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(l.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
