// Package filestore keeps uploaded assets on the local filesystem. References are
// slash-separated paths relative to the store root, e.g. "logos/4f1c..._logo.png".
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const maxFileNameLength = 100

var (
	ErrInvalidFolder = errors.New("asset folder must be a single path segment")
	ErrInvalidRef    = errors.New("asset reference escapes the store root")

	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// LocalStore implements ports.AssetStore on a directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates root if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create asset root %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// Put writes content under folder with a unique prefix and returns its reference.
// A partially written file never becomes visible under the final name.
func (s *LocalStore) Put(ctx context.Context, folder, name string, content io.Reader) (string, error) {
	if folder == "" || folder != path.Base(folder) || folder == "." || folder == ".." {
		return "", ErrInvalidFolder
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}

	fileName := uuid.NewString() + "_" + sanitize(name)
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = io.Copy(tmp, readerWithContext{ctx: ctx, r: content}); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write asset %s: %w", fileName, err)
	}
	if err = tmp.Close(); err != nil {
		return "", err
	}
	if err = os.Rename(tmp.Name(), filepath.Join(dir, fileName)); err != nil {
		return "", err
	}

	return path.Join(folder, fileName), nil
}

// Open returns the file behind ref.
func (s *LocalStore) Open(ref string) (*os.File, error) {
	p, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (s *LocalStore) resolve(ref string) (string, error) {
	clean := path.Clean("/" + ref)
	if clean == "/" || strings.Contains(ref, "..") {
		return "", ErrInvalidRef
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func sanitize(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "file"
	}
	if r := []rune(base); len(r) > maxFileNameLength {
		base = string(r[len(r)-maxFileNameLength:])
	}
	return base
}

type readerWithContext struct {
	ctx context.Context
	r   io.Reader
}

func (r readerWithContext) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
