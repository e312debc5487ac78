package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"djisr/apperrors"
	"djisr/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Upload folders under the configured upload directory
const (
	FolderLogos      = "logos"
	FolderPitchDecks = "pitch-decks"
	FolderVideos     = "videos"
	FolderLegal      = "legal"
	FolderProofs     = "proofs"
)

// PublicPrefix is the URL path uploads are served from.
const PublicPrefix = "/uploads/"

// SaveUploadedFile stores file as <uploadDir>/<folder>/<uuid><ext> and returns its public URL.
func SaveUploadedFile(file *multipart.FileHeader, uploadDir, folder string, maxBytes int64) (string, error) {
	if maxBytes > 0 && file.Size > maxBytes {
		return "", apperrors.Validation(fmt.Sprintf("%s exceeds the %d MB upload limit", file.Filename, maxBytes>>20))
	}

	// Open the uploaded file
	src, err := file.Open()
	if err != nil {
		return "", apperrors.Internal("Could not read upload", err)
	}
	defer src.Close()

	// Create destination directory if it doesn't exist
	destDir := filepath.Join(uploadDir, folder)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", apperrors.Internal("Could not create upload directory", err)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(file.Filename)))
	newFilename := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(destDir, newFilename))
	if err != nil {
		return "", apperrors.Internal("Could not store upload", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", apperrors.Internal("Could not store upload", err)
	}

	return GetFileURL(folder, newFilename), nil
}

func GetFileURL(folder, filename string) string {
	if filename == "" {
		return ""
	}
	return PublicPrefix + folder + "/" + filename
}

// SaveFormFiles stores every present multipart field listed in folders
// (field name -> folder) and returns field name -> public URL. Requests that
// are not multipart yield an empty map.
func SaveFormFiles(c *fiber.Ctx, uploadDir string, maxBytes int64, folders map[string]string) (map[string]string, error) {
	urls := make(map[string]string, len(folders))

	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return urls, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.Validation("Invalid multipart form")
	}

	for field, folder := range folders {
		files := form.File[field]
		if len(files) == 0 {
			continue
		}
		url, err := SaveUploadedFile(files[0], uploadDir, folder, maxBytes)
		if err != nil {
			RemoveUploadedFiles(uploadDir, urls)
			return nil, err
		}
		urls[field] = url
	}
	return urls, nil
}

// UploadPath maps a public upload URL back to its file under uploadDir. It
// reports false for anything outside the upload tree.
func UploadPath(uploadDir, url string) (string, bool) {
	if !strings.HasPrefix(url, PublicPrefix) {
		return "", false
	}
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(url, PublicPrefix)))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", false
	}
	return filepath.Join(uploadDir, rel), true
}

// RemoveUploadedFiles deletes files stored by SaveFormFiles, for requests
// that fail after their uploads were written.
func RemoveUploadedFiles(uploadDir string, urls map[string]string) {
	for _, url := range urls {
		path, ok := UploadPath(uploadDir, url)
		if !ok {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("Could not remove upload", "path", path, "error", err)
		}
	}
}
