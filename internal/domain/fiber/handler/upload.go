package handler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

const maxUploadSize = 5 * 1024 * 1024

// saveUpload stores the multipart file fieldName in a temporary directory.
// The returned cleanup removes it.
func saveUpload(c *fiber.Ctx, fieldName string) (path string, cleanup func(), err error) {
	file, err := c.FormFile(fieldName)
	if err != nil {
		return "", nil, fmt.Errorf("%s file is required", fieldName)
	}
	if file.Size > maxUploadSize {
		return "", nil, fmt.Errorf("%s file size is too large (max 5MB)", fieldName)
	}

	dir, err := os.MkdirTemp("", "upload-*")
	if err != nil {
		return "", nil, err
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	path = filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveFile(file, path); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("cannot save %s file: %w", fieldName, err)
	}
	return path, cleanup, nil
}
