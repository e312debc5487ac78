package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OfferType enum values
const (
	OfferTypeEquity  = "EQUITY"
	OfferTypeRoyalty = "ROYALTY"
)

// RiskLevel enum values
const (
	RiskLow     = "LOW"
	RiskMedium  = "MEDIUM"
	RiskHigh    = "HIGH"
	RiskExtreme = "EXTREME"
)

// FundingRequest is a startup's open capital ask ("deal"). Only IsActive changes after creation.
type FundingRequest struct {
	gorm.Model
	StartupID       uint                `gorm:"not null;index" json:"startupId"`
	AmountRequested decimal.Decimal     `gorm:"type:numeric(20,2);not null" json:"amountRequested"`
	EquityOffered   decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"equityOffered"`
	OfferType       string              `gorm:"type:varchar(20);not null" json:"offerType"`
	RiskScore       int                 `gorm:"not null" json:"riskScore"`
	RiskLevel       string              `gorm:"type:varchar(20);not null" json:"riskLevel"`
	IsActive        bool                `gorm:"not null;default:true;index" json:"isActive"`

	// Relations
	Startup *Startup          `gorm:"foreignKey:StartupID" json:"startup,omitempty"`
	Offers  []InvestmentOffer `gorm:"foreignKey:FundingRequestID" json:"offers,omitempty"`
}
