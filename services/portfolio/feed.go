package portfolio

import (
	"context"
	"time"

	"djisr/apperrors"
	"djisr/logger"
	"djisr/models"

	"github.com/shopspring/decimal"
)

// FeedStartup is the public part of a startup shown next to its deal.
type FeedStartup struct {
	ID          uint   `json:"id"`
	CompanyName string `json:"companyName"`
	FounderName string `json:"founderName"`
	LogoURL     string `json:"logoUrl"`
	Description string `json:"description"`
	Sector      string `json:"sector"`
}

type FeedItem struct {
	ID              uint                `json:"id"`
	AmountRequested decimal.Decimal     `json:"amountRequested"`
	EquityOffered   decimal.NullDecimal `json:"equityOffered"`
	OfferType       string              `json:"offerType"`
	RiskScore       int                 `json:"riskScore"`
	RiskLevel       string              `json:"riskLevel"`
	CreatedAt       time.Time           `json:"createdAt"`
	Startup         FeedStartup         `json:"startup"`
}

// DealFeed lists active funding requests, newest first.
func (s *Service) DealFeed(ctx context.Context) ([]FeedItem, error) {
	var deals []models.FundingRequest
	if err := s.db.WithContext(ctx).
		Preload("Startup").
		Where("is_active = ?", true).
		Order("created_at DESC").Order("id DESC").
		Find(&deals).Error; err != nil {
		return nil, apperrors.Internal("Failed to load deals", err)
	}

	items := make([]FeedItem, 0, len(deals))
	for _, d := range deals {
		if d.Startup == nil {
			logger.Warn("Skipping deal with missing startup", "fundingRequestId", d.ID, "startupId", d.StartupID)
			continue
		}
		items = append(items, FeedItem{
			ID:              d.ID,
			AmountRequested: d.AmountRequested,
			EquityOffered:   d.EquityOffered,
			OfferType:       d.OfferType,
			RiskScore:       d.RiskScore,
			RiskLevel:       d.RiskLevel,
			CreatedAt:       d.CreatedAt,
			Startup: FeedStartup{
				ID:          d.Startup.ID,
				CompanyName: d.Startup.CompanyName,
				FounderName: d.Startup.FounderName,
				LogoURL:     d.Startup.LogoURL,
				Description: d.Startup.Description,
				Sector:      d.Startup.Sector,
			},
		})
	}
	return items, nil
}
