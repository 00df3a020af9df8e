package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ImageStore writes gallery images below Dir; they are served at BaseURL.
type ImageStore struct {
	Dir     string
	BaseURL string
}

func NewImageStore(dir, baseURL string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &ImageStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *ImageStore) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err = f.Close(); err != nil {
		return "", err
	}
	return s.BaseURL + "/" + key, nil
}

func (s *ImageStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *ImageStore) path(key string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.Dir, filepath.FromSlash(key)), nil
}
