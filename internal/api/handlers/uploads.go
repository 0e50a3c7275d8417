package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// saveImage stores an uploaded image under <mediaRoot>/<subdir>/ with a
// random filename and returns its media-relative path.
func saveImage(c *gin.Context, file *multipart.FileHeader, mediaRoot, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	dir := filepath.Join(mediaRoot, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.New().String() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(subdir, name)), nil
}

// removeImage deletes a previously stored image. A missing file is not an
// error.
func removeImage(mediaRoot, relPath string) {
	if relPath == "" {
		return
	}
	_ = os.Remove(filepath.Join(mediaRoot, filepath.FromSlash(relPath)))
}
