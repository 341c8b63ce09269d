// Package upload stores message attachments on local disk with validated
// type and size limits.
package upload

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"promptdeck/internal/config"
	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
)

// AllowedTypes is the attachment content-type allow list.
var AllowedTypes = map[string]bool{
	"text/plain":       true,
	"application/json": true,
	"text/markdown":    true,
	"application/pdf":  true,
	"image/png":        true,
	"image/jpeg":       true,
}

// File is one incoming attachment in an upload batch.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Service validates and persists attachment batches. A batch is atomic:
// every file must pass validation before any file is written, and a write
// failure mid-batch removes the files already written.
type Service struct {
	dir    string
	logger *slog.Logger
}

// NewService creates the upload service, ensuring the storage directory
// exists.
func NewService(dir string, logger *slog.Logger) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Service{
		dir:    dir,
		logger: logger,
	}, nil
}

// Store persists a batch of attachments and returns their metadata.
func (s *Service) Store(files []File) ([]models.FileMeta, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", domain.ErrValidation)
	}
	if len(files) > config.MaxUploadFiles {
		return nil, fmt.Errorf("%w: you can upload up to %d files at once", domain.ErrValidation, config.MaxUploadFiles)
	}
	for _, f := range files {
		if f.Size > config.MaxUploadFileSize {
			return nil, fmt.Errorf("%w: file %q is larger than 5MB", domain.ErrValidation, f.Name)
		}
		if !AllowedTypes[f.ContentType] {
			contentType := f.ContentType
			if contentType == "" {
				contentType = "unknown"
			}
			return nil, fmt.Errorf("%w: file type not allowed: %s", domain.ErrValidation, contentType)
		}
	}

	metas := make([]models.FileMeta, 0, len(files))
	written := make([]string, 0, len(files))
	for _, f := range files {
		storedName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(f.Name))
		path := filepath.Join(s.dir, storedName)

		if err := s.writeFile(path, f.Reader); err != nil {
			for _, p := range written {
				os.Remove(p)
			}
			return nil, fmt.Errorf("store file %q: %w", f.Name, err)
		}
		written = append(written, path)

		metas = append(metas, models.FileMeta{
			ID:         "file-" + uuid.New().String(),
			Name:       f.Name,
			StoredName: storedName,
			Size:       f.Size,
			Type:       f.ContentType,
			UploadedAt: time.Now(),
		})
	}

	s.logger.Info("attachments stored", "count", len(metas))
	return metas, nil
}

func (s *Service) writeFile(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	// Limit enforced at write time as well; the declared size header is
	// client-controlled.
	_, err = io.Copy(out, io.LimitReader(r, config.MaxUploadFileSize+1))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}

// sanitizeName strips path components and replaces characters outside a
// conservative allow list so stored names are safe on any filesystem.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	out := sb.String()
	if strings.Trim(out, ".") == "" {
		return "file"
	}
	return out
}
