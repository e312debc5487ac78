// Package portfolio builds the read-side views of the negotiation workflow.
// Every call recomputes from the database; nothing is cached.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"djisr/apperrors"
	"djisr/logger"
	"djisr/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NegotiationWindow is how long a pending offer is shown as valid.
const NegotiationWindow = 14 * 24 * time.Hour

const (
	dateLayout    = "2006-01-02"
	oneLinerChars = 60
)

var hundred = decimal.NewFromInt(100)

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ImpliedValuation is amount / (equity / 100), rounded to cents. A missing or
// non-positive equity yields zero.
func ImpliedValuation(amount decimal.Decimal, equity decimal.NullDecimal) decimal.Decimal {
	if !equity.Valid || !equity.Decimal.IsPositive() {
		return decimal.Zero
	}
	return amount.Mul(hundred).Div(equity.Decimal).Round(2)
}

type InvestorProfile struct {
	FirstName     string          `json:"first_name"`
	TotalDeployed decimal.Decimal `json:"total_deployed"`
}

type KPIMetrics struct {
	PendingOffersCount int `json:"pending_offers_count"`
	ActiveDealsCount   int `json:"active_deals_count"`
}

type ActiveInvestment struct {
	ID                  string          `json:"id"`
	StartupName         string          `json:"startup_name"`
	LogoText            string          `json:"logo_text"`
	LogoURL             string          `json:"logo_url"`
	OneLiner            string          `json:"one_liner"`
	Status              string          `json:"status"`
	InvestedDate        string          `json:"invested_date"`
	MyStakeAmount       decimal.Decimal `json:"my_stake_amount"`
	OwnershipPercentage decimal.Decimal `json:"ownership_percentage"`
	CurrentValuation    decimal.Decimal `json:"current_valuation"`
}

type PendingOffer struct {
	ID               string          `json:"id"`
	StartupName      string          `json:"startup_name"`
	LogoText         string          `json:"logo_text"`
	LogoURL          string          `json:"logo_url"`
	OneLiner         string          `json:"one_liner"`
	Status           string          `json:"status"`
	OfferDate        string          `json:"offer_date"`
	OfferAmount      decimal.Decimal `json:"offer_amount"`
	EquityAsked      decimal.Decimal `json:"equity_asked"`
	ImpliedValuation decimal.Decimal `json:"implied_valuation"`
	ExpirationDate   string          `json:"expiration_date"`
}

// InvestorDashboard is the investor's portfolio page.
type InvestorDashboard struct {
	InvestorProfile   InvestorProfile    `json:"investor_profile"`
	KPIMetrics        KPIMetrics         `json:"kpi_metrics"`
	ActiveInvestments []ActiveInvestment `json:"active_investments"`
	PendingOffers     []PendingOffer     `json:"pending_offers"`
}

func firstName(fullName string) string {
	if parts := strings.Fields(fullName); len(parts) > 0 {
		return parts[0]
	}
	return "Investor"
}

func logoText(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

func oneLiner(description string) string {
	if description == "" {
		return ""
	}
	runes := []rune(description)
	if len(runes) > oneLinerChars {
		runes = runes[:oneLinerChars]
	}
	return string(runes) + "..."
}

// InvestorDashboard partitions the investor's offers into accepted and open
// ones. total_deployed covers every accepted offer; rows whose deal or startup
// is gone are left out of the lists only.
func (s *Service) InvestorDashboard(ctx context.Context, investorID uint) (*InvestorDashboard, error) {
	db := s.db.WithContext(ctx)

	var investor models.Investor
	if err := db.Select("id", "full_name").First(&investor, investorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Investor not found")
		}
		return nil, apperrors.Internal("Failed to load investor", err)
	}

	var offers []models.InvestmentOffer
	if err := db.Preload("FundingRequest.Startup").
		Where("investor_id = ?", investorID).
		Order("created_at DESC").Order("id DESC").
		Find(&offers).Error; err != nil {
		return nil, apperrors.Internal("Failed to load offers", err)
	}

	dash := &InvestorDashboard{
		InvestorProfile:   InvestorProfile{FirstName: firstName(investor.FullName), TotalDeployed: decimal.Zero},
		ActiveInvestments: []ActiveInvestment{},
		PendingOffers:     []PendingOffer{},
	}

	for _, o := range offers {
		if o.Status == models.OfferAccepted {
			dash.InvestorProfile.TotalDeployed = dash.InvestorProfile.TotalDeployed.Add(o.ProposedAmount)
		}
		if !o.IsOpen() && o.Status != models.OfferAccepted {
			continue
		}
		if o.FundingRequest == nil || o.FundingRequest.Startup == nil {
			logger.Warn("Skipping offer with missing deal or startup", "offerId", o.ID, "fundingRequestId", o.FundingRequestID)
			continue
		}

		startup := o.FundingRequest.Startup
		equity := o.ProposedEquity.Decimal
		if !o.ProposedEquity.Valid {
			equity = decimal.Zero
		}
		valuation := ImpliedValuation(o.ProposedAmount, o.ProposedEquity)

		if o.Status == models.OfferAccepted {
			dash.ActiveInvestments = append(dash.ActiveInvestments, ActiveInvestment{
				ID:                  fmt.Sprintf("deal_%d", o.FundingRequestID),
				StartupName:         startup.CompanyName,
				LogoText:            logoText(startup.CompanyName),
				LogoURL:             startup.LogoURL,
				OneLiner:            oneLiner(startup.Description),
				Status:              "live",
				InvestedDate:        o.UpdatedAt.UTC().Format(dateLayout),
				MyStakeAmount:       o.ProposedAmount,
				OwnershipPercentage: equity,
				CurrentValuation:    valuation,
			})
			continue
		}

		status := "pending"
		if o.Status == models.OfferCounterOffer {
			status = "negotiating"
		}
		dash.PendingOffers = append(dash.PendingOffers, PendingOffer{
			ID:               fmt.Sprintf("offer_%d", o.ID),
			StartupName:      startup.CompanyName,
			LogoText:         logoText(startup.CompanyName),
			LogoURL:          startup.LogoURL,
			OneLiner:         oneLiner(startup.Description),
			Status:           status,
			OfferDate:        o.CreatedAt.UTC().Format(dateLayout),
			OfferAmount:      o.ProposedAmount,
			EquityAsked:      equity,
			ImpliedValuation: valuation,
			ExpirationDate:   o.CreatedAt.Add(NegotiationWindow).UTC().Format(dateLayout),
		})
	}

	dash.KPIMetrics = KPIMetrics{
		PendingOffersCount: len(dash.PendingOffers),
		ActiveDealsCount:   len(dash.ActiveInvestments),
	}
	return dash, nil
}
