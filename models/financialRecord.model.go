package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FinancialRecord is one month of reported revenue and costs.
type FinancialRecord struct {
	gorm.Model
	StartupID        uint            `gorm:"not null;uniqueIndex:idx_financial_startup_month" json:"startupId"`
	Month            time.Time       `gorm:"not null;uniqueIndex:idx_financial_startup_month" json:"month"`
	Revenue          decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"revenue"`
	Costs            decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"costs"`
	ProofDocumentURL string          `json:"proofDocumentUrl"`
}
