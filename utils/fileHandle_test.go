package utils

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"djisr/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("companyName", "agriflow"))
	for field, content := range files {
		part, err := w.CreateFormFile(field, field+".PDF")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestSaveFormFiles(t *testing.T) {
	dir := t.TempDir()
	var saved map[string]string
	var saveErr error

	app := fiber.New()
	app.Post("/upload", func(c *fiber.Ctx) error {
		saved, saveErr = SaveFormFiles(c, dir, 1<<20, map[string]string{
			"logo":      FolderLogos,
			"pitchDeck": FolderPitchDecks,
		})
		return c.SendStatus(fiber.StatusNoContent)
	})

	_, err := app.Test(multipartRequest(t, map[string]string{"pitchDeck": "%PDF-1.7"}), -1)
	require.NoError(t, err)
	require.NoError(t, saveErr)

	require.Len(t, saved, 1)
	url := saved["pitchDeck"]
	assert.True(t, strings.HasPrefix(url, "/uploads/pitch-decks/"), url)
	assert.True(t, strings.HasSuffix(url, ".pdf"), url)

	content, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, PublicPrefix)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(content))
}

func TestSaveFormFilesRejectsLargeFiles(t *testing.T) {
	var saveErr error
	app := fiber.New()
	app.Post("/upload", func(c *fiber.Ctx) error {
		_, saveErr = SaveFormFiles(c, t.TempDir(), 4, map[string]string{"logo": FolderLogos})
		return c.SendStatus(fiber.StatusNoContent)
	})

	_, err := app.Test(multipartRequest(t, map[string]string{"logo": "too large"}), -1)
	require.NoError(t, err)
	assert.True(t, apperrors.Is(saveErr, apperrors.KindValidation))
}

func TestSaveFormFilesIgnoresJSON(t *testing.T) {
	var saved map[string]string
	var saveErr error
	app := fiber.New()
	app.Post("/upload", func(c *fiber.Ctx) error {
		saved, saveErr = SaveFormFiles(c, t.TempDir(), 1<<20, map[string]string{"logo": FolderLogos})
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.NoError(t, saveErr)
	assert.Empty(t, saved)
}

func TestGetFileURL(t *testing.T) {
	assert.Equal(t, "", GetFileURL(FolderLogos, ""))
	assert.Equal(t, "/uploads/logos/a.png", GetFileURL(FolderLogos, "a.png"))
}

func TestSaveFormFilesCleansUpOnRejectedFile(t *testing.T) {
	dir := t.TempDir()
	var saveErr error
	app := fiber.New()
	app.Post("/upload", func(c *fiber.Ctx) error {
		_, saveErr = SaveFormFiles(c, dir, 4, map[string]string{
			"logo":      FolderLogos,
			"pitchDeck": FolderPitchDecks,
		})
		return c.SendStatus(fiber.StatusNoContent)
	})

	_, err := app.Test(multipartRequest(t, map[string]string{"logo": "ok", "pitchDeck": "too large"}), -1)
	require.NoError(t, err)
	require.True(t, apperrors.Is(saveErr, apperrors.KindValidation))

	entries, _ := os.ReadDir(filepath.Join(dir, FolderLogos))
	assert.Empty(t, entries)
}

func TestUploadPath(t *testing.T) {
	dir := t.TempDir()

	path, ok := UploadPath(dir, "/uploads/pitch-decks/deck.pdf")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "pitch-decks", "deck.pdf"), path)

	for _, url := range []string{"/uploads/../secret.pdf", "/uploads/", "/etc/passwd", "https://cdn.example.com/deck.pdf"} {
		_, ok := UploadPath(dir, url)
		assert.False(t, ok, url)
	}
}

func TestRemoveUploadedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, FolderLogos), 0755))
	stored := filepath.Join(dir, FolderLogos, "a.png")
	require.NoError(t, os.WriteFile(stored, []byte("png"), 0644))
	outside := filepath.Join(t.TempDir(), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0644))

	RemoveUploadedFiles(dir, map[string]string{
		"logo":  GetFileURL(FolderLogos, "a.png"),
		"gone":  GetFileURL(FolderLogos, "missing.png"),
		"other": outside,
	})

	_, err := os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}
