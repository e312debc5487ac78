package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Opportunity is an investor-posted ask for startups (reverse market).
type Opportunity struct {
	gorm.Model
	InvestorID  uint                `gorm:"not null;index" json:"investorId"`
	Title       string              `gorm:"not null" json:"title"`
	Description string              `gorm:"type:text" json:"description"`
	Budget      decimal.NullDecimal `gorm:"type:numeric(20,2)" json:"budget"`
}
