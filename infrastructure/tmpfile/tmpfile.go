package tmpfile

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"crowdfund-service/infrastructure/logger"
)

// Save spools an uploaded multipart file into dir (os.TempDir when empty)
// and returns its path with a cleanup that removes it.
func Save(fh *multipart.FileHeader, dir string) (string, func(), error) {
	src, err := fh.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	if dir == "" {
		dir = os.TempDir()
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.CreateTemp(dir, "upload-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path := dst.Name()
	cleanup := func() { Remove(path) }

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return path, cleanup, nil
}

func Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.GetLogger().WithField("error", err).WithField("path", path).Warn("Error while removing temp file")
	}
}
