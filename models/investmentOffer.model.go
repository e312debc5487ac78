package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OfferStatus enum values
const (
	OfferPending      = "PENDING"
	OfferCounterOffer = "COUNTER_OFFER"
	OfferAccepted     = "ACCEPTED"
	OfferRejected     = "REJECTED"
)

// OpenOfferStatuses are the statuses an investor may still revise and a startup may still answer.
var OpenOfferStatuses = []string{OfferPending, OfferCounterOffer}

// InvestmentOffer links an investor to a funding request. At most one row exists per pair.
type InvestmentOffer struct {
	gorm.Model
	InvestorID       uint                `gorm:"not null;uniqueIndex:idx_offer_investor_request" json:"investorId"`
	FundingRequestID uint                `gorm:"not null;uniqueIndex:idx_offer_investor_request;index" json:"fundingRequestId"`
	ProposedAmount   decimal.Decimal     `gorm:"type:numeric(20,2);not null" json:"proposedAmount"`
	ProposedEquity   decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"proposedEquity"`
	Status           string              `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`

	// Relations
	Investor       *Investor       `gorm:"foreignKey:InvestorID" json:"investor,omitempty"`
	FundingRequest *FundingRequest `gorm:"foreignKey:FundingRequestID" json:"fundingRequest,omitempty"`
}

// IsOpen reports whether the offer is still negotiable.
func (o InvestmentOffer) IsOpen() bool {
	return o.Status == OfferPending || o.Status == OfferCounterOffer
}
