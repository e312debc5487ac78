// Package negotiation owns the deal and offer workflow: creating funding
// requests, the investor offer upsert and the startup's accept/reject decision.
package negotiation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"djisr/apperrors"
	"djisr/logger"
	"djisr/metrics"
	"djisr/models"
	"djisr/services/risk"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var hundred = decimal.NewFromInt(100)

// RiskEstimator scores a startup profile. Implementations must not fail.
type RiskEstimator interface {
	Estimate(ctx context.Context, p risk.Profile) risk.Assessment
}

type Service struct {
	db   *gorm.DB
	risk RiskEstimator
}

func New(db *gorm.DB, estimator RiskEstimator) *Service {
	return &Service{db: db, risk: estimator}
}

// DealInput carries the client-supplied terms of a new funding request.
type DealInput struct {
	AmountRequested decimal.Decimal
	EquityOffered   decimal.NullDecimal
	OfferType       string
}

// OfferInput carries an investor's proposed terms.
type OfferInput struct {
	FundingRequestID int64
	ProposedAmount   decimal.Decimal
	ProposedEquity   decimal.NullDecimal
}

func validEquity(eq decimal.NullDecimal) bool {
	return !eq.Valid || (eq.Decimal.IsPositive() && eq.Decimal.LessThanOrEqual(hundred))
}

// CreateFundingRequest opens a deal for the startup. The risk inputs come from
// the stored profile, never from the request.
func (s *Service) CreateFundingRequest(ctx context.Context, startupID uint, in DealInput) (*models.FundingRequest, error) {
	if !in.AmountRequested.IsPositive() {
		return nil, apperrors.Validation("amountRequested must be greater than 0")
	}
	switch in.OfferType {
	case models.OfferTypeEquity:
		if !in.EquityOffered.Valid {
			return nil, apperrors.Validation("equityOffered is required for EQUITY offers")
		}
	case models.OfferTypeRoyalty:
	default:
		return nil, apperrors.Validation("offerType must be EQUITY or ROYALTY")
	}
	if !validEquity(in.EquityOffered) {
		return nil, apperrors.Validation("equityOffered must be between 0 and 100")
	}

	db := s.db.WithContext(ctx)

	var startup models.Startup
	if err := db.First(&startup, startupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Startup profile not found")
		}
		return nil, apperrors.Internal("Failed to load startup profile", err)
	}

	assessment := s.risk.Estimate(ctx, risk.ProfileOf(&startup))

	deal := models.FundingRequest{
		StartupID:       startup.ID,
		AmountRequested: in.AmountRequested,
		EquityOffered:   in.EquityOffered,
		OfferType:       in.OfferType,
		RiskScore:       assessment.Score,
		RiskLevel:       assessment.Level,
		IsActive:        true,
	}
	if err := db.Create(&deal).Error; err != nil {
		return nil, apperrors.Internal("Failed to create funding request", err)
	}

	metrics.FundingRequestsCreated.WithLabelValues(deal.RiskLevel).Inc()
	logger.Info("Funding request created",
		"fundingRequestId", deal.ID, "startupId", startup.ID,
		"riskScore", deal.RiskScore, "riskLevel", deal.RiskLevel, "riskFallback", assessment.Fallback)

	return &deal, nil
}

// guarded keeps col unchanged unless the existing row is still open.
func guarded(col string, value interface{}) clause.Expr {
	return gorm.Expr(
		fmt.Sprintf("CASE WHEN investment_offers.status IN ? THEN ? ELSE investment_offers.%s END", col),
		models.OpenOfferStatuses, value,
	)
}

// SubmitOffer creates the investor's offer on a deal (PENDING) or, when one
// already exists, overwrites its terms and marks it COUNTER_OFFER. The write is
// a single INSERT ... ON CONFLICT statement keyed on (investor, deal). Offers
// that were already accepted or rejected are left untouched and yield Conflict.
func (s *Service) SubmitOffer(ctx context.Context, investorID uint, in OfferInput) (*models.InvestmentOffer, error) {
	if in.FundingRequestID <= 0 {
		return nil, apperrors.Validation("Invalid Funding Request ID")
	}
	if !in.ProposedAmount.IsPositive() {
		return nil, apperrors.Validation("proposedAmount must be greater than 0")
	}
	if !validEquity(in.ProposedEquity) {
		return nil, apperrors.Validation("proposedEquity must be between 0 and 100")
	}

	dealID := uint(in.FundingRequestID)
	var saved models.InvestmentOffer

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var investor models.Investor
		if err := tx.Select("id").First(&investor, investorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Investor not found")
			}
			return apperrors.Internal("Failed to load investor", err)
		}

		var deal models.FundingRequest
		if err := tx.Select("id", "is_active").First(&deal, dealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Funding request not found")
			}
			return apperrors.Internal("Failed to load funding request", err)
		}
		if !deal.IsActive {
			return apperrors.Conflict("This deal is closed")
		}

		offer := models.InvestmentOffer{
			InvestorID:       investorID,
			FundingRequestID: dealID,
			ProposedAmount:   in.ProposedAmount,
			ProposedEquity:   in.ProposedEquity,
			Status:           models.OfferPending,
		}

		// status goes last: MySQL evaluates assignments left to right.
		upsert := clause.OnConflict{
			Columns: []clause.Column{{Name: "investor_id"}, {Name: "funding_request_id"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "proposed_amount"}, Value: guarded("proposed_amount", in.ProposedAmount)},
				{Column: clause.Column{Name: "proposed_equity"}, Value: guarded("proposed_equity", in.ProposedEquity)},
				{Column: clause.Column{Name: "updated_at"}, Value: guarded("updated_at", time.Now().UTC())},
				{Column: clause.Column{Name: "status"}, Value: guarded("status", models.OfferCounterOffer)},
			},
		}
		if err := tx.Clauses(upsert).Create(&offer).Error; err != nil {
			return apperrors.Internal("Failed to save offer", err)
		}

		if err := tx.Where("investor_id = ? AND funding_request_id = ?", investorID, dealID).
			First(&saved).Error; err != nil {
			return apperrors.Internal("Failed to load saved offer", err)
		}
		if !saved.IsOpen() {
			return apperrors.Conflict(fmt.Sprintf("Your offer on this deal was already %s", saved.Status))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	kind := "created"
	if saved.Status == models.OfferCounterOffer {
		kind = "revised"
	}
	metrics.OffersSubmitted.WithLabelValues(kind).Inc()
	logger.Info("Offer submitted",
		"offerId", saved.ID, "investorId", investorID, "fundingRequestId", dealID, "status", saved.Status)

	return &saved, nil
}

// RespondToOffer records the startup's decision. Only the deal owner may
// answer, and only while the offer is open: ACCEPTED and REJECTED are final.
// Accepting closes the deal.
func (s *Service) RespondToOffer(ctx context.Context, startupID uint, offerID uint, status string) (*models.InvestmentOffer, error) {
	if status != models.OfferAccepted && status != models.OfferRejected {
		return nil, apperrors.Validation("Invalid status. Use ACCEPTED or REJECTED.")
	}
	if offerID == 0 {
		return nil, apperrors.Validation("Invalid offer ID")
	}

	var offer models.InvestmentOffer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("FundingRequest").First(&offer, offerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Offer not found")
			}
			return apperrors.Internal("Failed to load offer", err)
		}
		if offer.FundingRequest == nil || offer.FundingRequest.StartupID != startupID {
			return apperrors.Forbidden("You can only respond to offers on your own deals")
		}

		res := tx.Model(&models.InvestmentOffer{}).
			Where("id = ? AND status IN ?", offerID, models.OpenOfferStatuses).
			Update("status", status)
		if res.Error != nil {
			return apperrors.Internal("Failed to update offer", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict(fmt.Sprintf("Offer is already %s", offer.Status))
		}

		if status == models.OfferAccepted {
			if err := tx.Model(&models.FundingRequest{}).
				Where("id = ?", offer.FundingRequestID).
				Update("is_active", false).Error; err != nil {
				return apperrors.Internal("Failed to close funding request", err)
			}
		}

		return tx.Preload("FundingRequest").First(&offer, offerID).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.OfferResponses.WithLabelValues(status).Inc()
	logger.Info("Offer answered", "offerId", offer.ID, "startupId", startupID, "status", status)

	return &offer, nil
}
