package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"artifact-catalog-service/internal/core/domain"

	"github.com/google/uuid"
)

var kinds = []domain.MediaKind{
	domain.MediaThumbnail,
	domain.MediaObject,
	domain.MediaMaterial,
	domain.MediaImage,
}

// LocalStorage keeps media files on disk under root, one directory per kind.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	for _, k := range kinds {
		if err := os.MkdirAll(filepath.Join(root, string(k)), 0o755); err != nil {
			return nil, fmt.Errorf("create media dir %s: %w", k, err)
		}
	}
	return &LocalStorage{root: root, baseURL: baseURL}, nil
}

func (s *LocalStorage) Root() string { return s.root }

func (s *LocalStorage) Save(ctx context.Context, kind domain.MediaKind, filename string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := cleanName(filename)
	if name == "" {
		return "", domain.ErrInvalidFilename
	}

	for attempt := 0; attempt < 5; attempt++ {
		candidate := name
		if attempt > 0 {
			ext := path.Ext(name)
			candidate = strings.TrimSuffix(name, ext) + "_" + uuid.NewString()[:8] + ext
		}

		full := filepath.Join(s.root, string(kind), candidate)
		f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create media file: %w", err)
		}

		if _, err := io.Copy(f, content); err != nil {
			_ = f.Close()
			_ = os.Remove(full)
			return "", fmt.Errorf("write media file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close media file: %w", err)
		}
		return s.Path(kind, candidate), nil
	}
	return "", fmt.Errorf("no free name for %s/%s", kind, name)
}

func (s *LocalStorage) Exists(kind domain.MediaKind, filename string) bool {
	name := cleanName(filename)
	if name == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.root, string(kind), name))
	return err == nil
}

func (s *LocalStorage) Open(p string) (io.ReadCloser, error) {
	clean := path.Clean("/" + p)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return nil, domain.ErrInvalidFilename
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		return nil, fmt.Errorf("open media file: %w", err)
	}
	return f, nil
}

// Path returns the storage-relative path of filename under kind.
func (s *LocalStorage) Path(kind domain.MediaKind, filename string) string {
	return path.Join(string(kind), cleanName(filename))
}

func (s *LocalStorage) URL(p string) string {
	if p == "" {
		return ""
	}
	return strings.TrimRight(s.baseURL, "/") + "/" + strings.TrimLeft(p, "/")
}

// cleanName strips any directory part so uploads cannot escape their kind.
func cleanName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
