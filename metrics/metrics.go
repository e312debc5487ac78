package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "djisr"

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	requestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RiskEstimates counts risk lookups by outcome (scored or fallback).
	RiskEstimates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_estimates_total",
			Help:      "Risk score lookups against the AI service",
		},
		[]string{"outcome"},
	)

	// FundingRequestsCreated counts new deals by risk level.
	FundingRequestsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "funding_requests_created_total",
			Help:      "Funding requests created",
		},
		[]string{"risk_level"},
	)

	// OffersSubmitted counts offer submissions (created or revised).
	OffersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_submitted_total",
			Help:      "Investment offers submitted",
		},
		[]string{"kind"},
	)

	// OfferResponses counts startup decisions on offers.
	OfferResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_responses_total",
			Help:      "Offers accepted or rejected by startups",
		},
		[]string{"status"},
	)
)

// Middleware records request count and latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		// fiber strings alias the request buffer; labels outlive it.
		labels := []string{
			utils.CopyString(c.Method()),
			utils.CopyString(c.Route().Path),
			strconv.Itoa(status),
		}
		requestCount.WithLabelValues(labels...).Inc()
		requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the default prometheus registry.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
