package handler

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadStore writes multipart files to local disk and returns the URL paths
// they are served under.
type UploadStore struct {
	Dir       string
	URLPrefix string
}

func NewUploadStore(dir, urlPrefix string) *UploadStore {
	return &UploadStore{Dir: dir, URLPrefix: urlPrefix}
}

func (s *UploadStore) Save(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	// the original filename is untrusted; keep only its extension
	name := uuid.NewString() + filepath.Ext(fh.Filename)
	if err := c.SaveUploadedFile(fh, filepath.Join(s.Dir, name)); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path.Join(s.URLPrefix, name), nil
}

func (s *UploadStore) SaveAll(c *gin.Context, files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		p, err := s.Save(c, fh)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
