package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Investor struct {
	gorm.Model
	Email     string                      `gorm:"uniqueIndex;not null" json:"email"`
	Password  string                      `gorm:"not null" json:"-"`
	FullName  string                      `gorm:"default:''" json:"fullName"`
	Biography string                      `gorm:"type:text" json:"biography"`
	Sectors   datatypes.JSONSlice[string] `json:"sectors"`

	Opportunities []Opportunity `gorm:"foreignKey:InvestorID" json:"opportunities,omitempty"`
}

// InvestorSummary is the investor as shown to startups next to an offer.
type InvestorSummary struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
}
