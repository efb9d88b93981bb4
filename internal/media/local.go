package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ukydev/rental-market/internal/models"
)

// LocalStore keeps media on disk below basePath, served under urlPrefix.
type LocalStore struct {
	basePath  string
	urlPrefix string
}

func NewLocalStore(basePath, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalStore{basePath: basePath, urlPrefix: strings.TrimSuffix(urlPrefix, "/") + "/"}, nil
}

// Put writes data to <basePath>/<kind>s/<uuid><ext>.
func (s *LocalStore) Put(ctx context.Context, data []byte, kind models.MediaKind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := string(kind) + "s"
	if err := os.MkdirAll(filepath.Join(s.basePath, dir), 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	name := uuid.New().String() + extensionFor(detectContentType(data, kind), kind)
	rel := dir + "/" + name
	if err := os.WriteFile(filepath.Join(s.basePath, dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return s.urlPrefix + rel, nil
}

// Remove deletes the file behind url. Urls may be absolute or a bare
// relative path as stored by older records.
func (s *LocalStore) Remove(ctx context.Context, url string) error {
	rel := strings.TrimPrefix(url, s.urlPrefix)
	path, err := s.safeJoin(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("media not found: %s", rel)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Dir is the directory served under the url prefix.
func (s *LocalStore) Dir() string { return s.basePath }

// safeJoin resolves rel below basePath and rejects directory traversal.
func (s *LocalStore) safeJoin(rel string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(s.basePath, filepath.FromSlash(rel)))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}
