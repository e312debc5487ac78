package portfolio

import (
	"context"
	"errors"
	"time"

	"djisr/apperrors"
	"djisr/logger"
	"djisr/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OfferView is an offer as the startup sees it.
type OfferView struct {
	ID             uint                   `json:"id"`
	ProposedAmount decimal.Decimal        `json:"proposedAmount"`
	ProposedEquity decimal.NullDecimal    `json:"proposedEquity"`
	Status         string                 `json:"status"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	Investor       models.InvestorSummary `json:"investor"`
}

// DealView is one of the startup's funding requests with the offers on it.
type DealView struct {
	ID              uint                `json:"id"`
	AmountRequested decimal.Decimal     `json:"amountRequested"`
	EquityOffered   decimal.NullDecimal `json:"equityOffered"`
	OfferType       string              `json:"offerType"`
	RiskScore       int                 `json:"riskScore"`
	RiskLevel       string              `json:"riskLevel"`
	IsActive        bool                `json:"isActive"`
	CreatedAt       time.Time           `json:"createdAt"`
	Offers          []OfferView         `json:"offers"`
}

type StartupSummary struct {
	ActiveRequestsCount int `json:"activeRequestsCount"`
	OpenOffersCount     int `json:"openOffersCount"`
}

// StartupDashboard is the founder's home page.
type StartupDashboard struct {
	Startup         models.Startup           `json:"startup"`
	Financials      []models.FinancialRecord `json:"financials"`
	FundingRequests []DealView               `json:"fundingRequests"`
	Summary         StartupSummary           `json:"summary"`
}

func (s *Service) StartupDashboard(ctx context.Context, startupID uint) (*StartupDashboard, error) {
	db := s.db.WithContext(ctx)

	var startup models.Startup
	err := db.
		Preload("Financials", func(tx *gorm.DB) *gorm.DB { return tx.Order("month ASC") }).
		Preload("FundingRequests", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC").Order("id DESC") }).
		Preload("FundingRequests.Offers", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		Preload("FundingRequests.Offers.Investor", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "full_name") }).
		First(&startup, startupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Startup not found")
		}
		return nil, apperrors.Internal("Failed to load dashboard", err)
	}

	dash := &StartupDashboard{
		Financials:      startup.Financials,
		FundingRequests: make([]DealView, 0, len(startup.FundingRequests)),
	}
	if dash.Financials == nil {
		dash.Financials = []models.FinancialRecord{}
	}

	for _, fr := range startup.FundingRequests {
		deal := DealView{
			ID:              fr.ID,
			AmountRequested: fr.AmountRequested,
			EquityOffered:   fr.EquityOffered,
			OfferType:       fr.OfferType,
			RiskScore:       fr.RiskScore,
			RiskLevel:       fr.RiskLevel,
			IsActive:        fr.IsActive,
			CreatedAt:       fr.CreatedAt,
			Offers:          make([]OfferView, 0, len(fr.Offers)),
		}
		if fr.IsActive {
			dash.Summary.ActiveRequestsCount++
		}

		for _, o := range fr.Offers {
			if o.Investor == nil {
				logger.Warn("Skipping offer with missing investor", "offerId", o.ID, "investorId", o.InvestorID)
				continue
			}
			if o.IsOpen() {
				dash.Summary.OpenOffersCount++
			}
			deal.Offers = append(deal.Offers, OfferView{
				ID:             o.ID,
				ProposedAmount: o.ProposedAmount,
				ProposedEquity: o.ProposedEquity,
				Status:         o.Status,
				CreatedAt:      o.CreatedAt,
				UpdatedAt:      o.UpdatedAt,
				Investor:       models.InvestorSummary{ID: o.Investor.ID, FullName: o.Investor.FullName},
			})
		}
		dash.FundingRequests = append(dash.FundingRequests, deal)
	}

	startup.Financials = nil
	startup.FundingRequests = nil
	dash.Startup = startup
	return dash, nil
}
