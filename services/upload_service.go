package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

// UploadService stores uploaded item photos on disk. Stored names are
// prefixed with the current unix-millis so concurrent uploads of the
// same file don't collide. File content is stored as-is.
type UploadService struct {
	dir string
}

func NewUploadService(dir string) (*UploadService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &UploadService{dir: dir}, nil
}

// Save writes the uploaded file into the upload directory and returns the
// stored filename. Any client-supplied path components are stripped.
func (s *UploadService) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	filename := fmt.Sprintf("%d%s", time.Now().UnixMilli(), filepath.Base(header.Filename))

	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return filename, nil
}

// Dir returns the directory uploads are stored in.
func (s *UploadService) Dir() string {
	return s.dir
}
