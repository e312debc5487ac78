// Package services builds the domain services on top of the process-wide
// database and configuration. Gateways to the AI service are reused across
// requests and rebuilt only when their configuration changes.
package services

import (
	"sync"
	"time"

	"djisr/config"
	"djisr/database"
	"djisr/services/negotiation"
	"djisr/services/portfolio"
	"djisr/services/risk"
	"djisr/services/slides"
)

type gatewayKey struct {
	url       string
	timeout   time.Duration
	uploadDir string
}

var (
	mu           sync.Mutex
	riskKey      gatewayKey
	riskClient   *risk.Client
	slidesKey    gatewayKey
	slidesClient *slides.Client
)

func riskGateway() *risk.Client {
	cfg := config.AppConfig
	key := gatewayKey{url: cfg.AIServiceURL, timeout: cfg.AIServiceTimeout}

	mu.Lock()
	defer mu.Unlock()
	if riskClient == nil || riskKey != key {
		riskClient = risk.NewClient(key.url, key.timeout)
		riskKey = key
	}
	return riskClient
}

func slidesGateway() *slides.Client {
	cfg := config.AppConfig
	key := gatewayKey{url: cfg.AIServiceURL, timeout: cfg.AIServiceTimeout, uploadDir: cfg.UploadDir}

	mu.Lock()
	defer mu.Unlock()
	if slidesClient == nil || slidesKey != key {
		slidesClient = slides.NewClient(key.url, key.timeout, key.uploadDir)
		slidesKey = key
	}
	return slidesClient
}

func Negotiation() *negotiation.Service {
	return negotiation.New(database.Database.Db, riskGateway())
}

func Portfolio() *portfolio.Service {
	return portfolio.New(database.Database.Db)
}

func Slides() *slides.Service {
	return slides.NewService(database.Database.Db, slidesGateway())
}
