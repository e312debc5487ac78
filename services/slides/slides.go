// Package slides forwards a startup's pitch deck to the AI service and hands
// back the generated slide structure untouched. Unlike risk scoring there is
// no fallback: every upstream failure reaches the caller.
package slides

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"djisr/apperrors"
	"djisr/logger"
	"djisr/models"
	"djisr/utils"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

const deckFilename = "pitch_deck.pdf"

type Client struct {
	http      *resty.Client
	uploadDir string
}

// NewClient builds a gateway against baseURL. uploadDir resolves deck URLs
// that point at locally stored uploads.
func NewClient(baseURL string, timeout time.Duration, uploadDir string) *Client {
	return &Client{
		http:      resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		uploadDir: uploadDir,
	}
}

// Generate sends the deck at location to POST /generate-slides.
func (c *Client) Generate(ctx context.Context, location string) (json.RawMessage, error) {
	deck, err := c.loadDeck(ctx, location)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", deckFilename, bytes.NewReader(deck)).
		Post("/generate-slides")
	if err != nil {
		return nil, apperrors.External("AI service unreachable", err)
	}
	if resp.IsError() {
		return nil, apperrors.External(
			fmt.Sprintf("AI service error: %d", resp.StatusCode()),
			errors.New(strings.TrimSpace(resp.String())))
	}
	if !json.Valid(resp.Body()) {
		return nil, apperrors.External("AI service returned malformed slides", nil)
	}
	return json.RawMessage(resp.Body()), nil
}

func (c *Client) loadDeck(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		resp, err := c.http.R().SetContext(ctx).Get(location)
		if err != nil {
			return nil, apperrors.External("Could not download pitch deck", err)
		}
		if resp.IsError() {
			return nil, apperrors.External(fmt.Sprintf("Could not download pitch deck: status %d", resp.StatusCode()), nil)
		}
		return resp.Body(), nil
	}

	path, err := c.localPath(location)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NotFound("Local PDF file missing on server.")
		}
		return nil, apperrors.Internal("Could not read pitch deck", err)
	}
	defer f.Close()

	return io.ReadAll(f)
}

func (c *Client) localPath(location string) (string, error) {
	if !strings.HasPrefix(location, utils.PublicPrefix) {
		return filepath.Clean(location), nil
	}
	path, ok := utils.UploadPath(c.uploadDir, location)
	if !ok {
		return "", apperrors.NotFound("Local PDF file missing on server.")
	}
	return path, nil
}

// Generator produces slides from a deck location.
type Generator interface {
	Generate(ctx context.Context, location string) (json.RawMessage, error)
}

type Service struct {
	db        *gorm.DB
	generator Generator
}

func NewService(db *gorm.DB, generator Generator) *Service {
	return &Service{db: db, generator: generator}
}

// ForStartup generates slides from the startup's stored pitch deck.
func (s *Service) ForStartup(ctx context.Context, startupID uint) (json.RawMessage, error) {
	var startup models.Startup
	if err := s.db.WithContext(ctx).Select("id", "pitch_deck_url").First(&startup, startupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Startup not found")
		}
		return nil, apperrors.Internal("Failed to load startup", err)
	}
	if startup.PitchDeckURL == "" {
		return nil, apperrors.NotFound("No pitch deck URL found in database.")
	}

	slides, err := s.generator.Generate(ctx, startup.PitchDeckURL)
	if err != nil {
		logger.Error("Slide generation failed", "startupId", startupID, "error", err)
		return nil, err
	}
	logger.Info("Slides generated", "startupId", startupID, "bytes", len(slides))
	return slides, nil
}
