// Package risk is the gateway to the external risk-scoring service. It never
// fails: any upstream problem yields FallbackScore so deal creation does not
// depend on the AI service being up.
package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"djisr/logger"
	"djisr/metrics"
	"djisr/models"

	"github.com/go-resty/resty/v2"
)

// FallbackScore is used whenever the upstream score cannot be obtained.
const FallbackScore = 50

// Profile is the server-sourced startup data the score is computed from.
type Profile struct {
	Sector              string  `json:"sector"`
	ExperienceYears     float64 `json:"experienceYears"`
	NumFounders         int     `json:"numFounders"`
	HasTechnicalFounder bool    `json:"hasTechnicalFounder"`
	MonthlyUsers        int     `json:"monthlyUsers"`
}

// ProfileOf extracts the risk-relevant fields of a stored startup.
func ProfileOf(s *models.Startup) Profile {
	return Profile{
		Sector:              s.Sector,
		ExperienceYears:     s.ExperienceYears,
		NumFounders:         s.NumFounders,
		HasTechnicalFounder: s.HasTechnicalFounder,
		MonthlyUsers:        s.MonthlyUsers,
	}
}

// Assessment is a score with its derived level.
type Assessment struct {
	Score    int
	Level    string
	Fallback bool
}

// LevelFor maps a score to its bucket: <30 LOW, <60 MEDIUM, <85 HIGH, else EXTREME.
func LevelFor(score int) string {
	switch {
	case score < 30:
		return models.RiskLow
	case score < 60:
		return models.RiskMedium
	case score < 85:
		return models.RiskHigh
	default:
		return models.RiskExtreme
	}
}

// Client calls POST /estimate-risk once, without retries.
type Client struct {
	http *resty.Client
}

// NewClient builds a gateway against baseURL with a per-call timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

type estimateResponse struct {
	RiskScore *float64 `json:"risk_score"`
}

// Estimate returns the upstream score, or FallbackScore on any failure.
func (c *Client) Estimate(ctx context.Context, p Profile) Assessment {
	score, err := c.fetch(ctx, p)
	if err != nil {
		logger.Warn("Risk service unavailable, using fallback score",
			"error", err, "fallbackScore", FallbackScore)
		metrics.RiskEstimates.WithLabelValues("fallback").Inc()
		return Assessment{Score: FallbackScore, Level: LevelFor(FallbackScore), Fallback: true}
	}

	metrics.RiskEstimates.WithLabelValues("scored").Inc()
	return Assessment{Score: score, Level: LevelFor(score)}
}

func (c *Client) fetch(ctx context.Context, p Profile) (int, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(p).
		Post("/estimate-risk")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("risk service returned status %d", resp.StatusCode())
	}

	var body estimateResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, fmt.Errorf("malformed risk response: %w", err)
	}
	if body.RiskScore == nil {
		return 0, fmt.Errorf("risk response has no risk_score")
	}

	score := math.Round(*body.RiskScore)
	if score < 0 || score > 100 {
		return 0, fmt.Errorf("risk score %v out of range", *body.RiskScore)
	}
	return int(score), nil
}
