// Package filesystem provides a local stowage.Storage backed by a sandboxed
// directory root. It is the development and test counterpart of the s3
// backend: uploads are atomic (uuid temp file plus rename) and reads are
// fully buffered so the returned stream matches the in-memory contract.
package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sagarc03/stowage"
)

// Storage serves objects from a directory sandbox. The os.Root confines
// every operation to the root directory, so even a hostile key cannot
// escape it.
type Storage struct {
	root    *os.Root
	baseURL string
}

var _ stowage.Storage = (*Storage)(nil)

// New returns a backend rooted at root. baseURL is the public prefix Locate
// joins keys onto (e.g. "http://localhost:8080/files"); it is stored with
// any trailing slash removed.
func New(root *os.Root, baseURL string) *Storage {
	return &Storage{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

// Sanitize normalizes name with stowage.SecureKey.
func (s *Storage) Sanitize(name string) (string, error) {
	return stowage.SecureKey(name)
}

// Size returns the file size in bytes, 0 when the file does not exist.
func (s *Storage) Size(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	key, err := s.Sanitize(key)
	if err != nil {
		return 0, err
	}

	info, err := s.root.Stat(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("size %q: %w: %s", key, stowage.ErrBackend, err)
	}

	return info.Size(), nil
}

// Locate joins the configured base URL and the key. No I/O.
func (s *Storage) Locate(_ context.Context, key string) (string, error) {
	return s.baseURL + "/" + key, nil
}

// Open reads the whole file into memory and returns a stream at offset 0.
func (s *Storage) Open(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := s.Sanitize(key)
	if err != nil {
		return nil, err
	}

	f, err := s.root.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open %q: %w", key, stowage.ErrNotFound)
		}
		return nil, fmt.Errorf("open %q: %w: %s", key, stowage.ErrBackend, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w: %s", key, stowage.ErrBackend, err)
	}

	return &byteStream{bytes.NewReader(data)}, nil
}

// Upload atomically writes content under the sanitized key using a temp
// file and rename, creating intermediate directories as needed. It returns
// the key actually written.
func (s *Storage) Upload(ctx context.Context, content io.ReadSeeker, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key, err := s.Sanitize(name)
	if err != nil {
		return "", err
	}

	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("upload %q: rewind content: %w", key, err)
	}

	tmpName := fmt.Sprintf(".t%s", uuid.New().String())
	t, err := s.root.Create(tmpName)
	if err != nil {
		return "", fmt.Errorf("upload %q: %w: %s", key, stowage.ErrBackend, err)
	}

	success := false
	defer func() {
		_ = t.Close()
		if !success {
			_ = s.root.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(t, content); err != nil {
		return "", fmt.Errorf("upload %q: %w: %s", key, stowage.ErrBackend, err)
	}
	if err := t.Sync(); err != nil {
		return "", fmt.Errorf("upload %q: %w: %s", key, stowage.ErrBackend, err)
	}

	if dir := filepath.Dir(key); dir != "." {
		if err := s.root.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("upload %q: %w: %s", key, stowage.ErrBackend, err)
		}
	}

	if err := s.root.Rename(tmpName, key); err != nil {
		return "", fmt.Errorf("upload %q: %w: %s", key, stowage.ErrBackend, err)
	}

	success = true
	return key, nil
}

// Delete removes the file. Deleting a missing file succeeds.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.root.Remove(key); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("delete %q: %w: %s", key, stowage.ErrBackend, err)
	}

	return nil
}

type byteStream struct {
	*bytes.Reader
}

func (*byteStream) Close() error { return nil }
