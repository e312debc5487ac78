package models

import "gorm.io/gorm"

// Startup is a founder account together with the profile the risk estimate is computed from.
type Startup struct {
	gorm.Model
	Email               string  `gorm:"uniqueIndex;not null" json:"email"`
	Password            string  `gorm:"not null" json:"-"`
	CompanyName         string  `gorm:"default:''" json:"companyName"`
	FounderName         string  `gorm:"default:''" json:"founderName"`
	Phone               string  `json:"phone"`
	WebsiteURL          string  `json:"websiteUrl"`
	LinkedinURL         string  `json:"linkedinUrl"`
	Description         string  `gorm:"type:text" json:"description"`
	Sector              string  `gorm:"type:varchar(100)" json:"sector"`
	ExperienceYears     float64 `gorm:"default:0" json:"experienceYears"`
	NumFounders         int     `gorm:"default:1" json:"numFounders"`
	HasTechnicalFounder bool    `gorm:"default:false" json:"hasTechnicalFounder"`
	MonthlyUsers        int     `gorm:"default:0" json:"monthlyUsers"`

	// Document locations
	LogoURL       string `json:"logoUrl"`
	PitchDeckURL  string `json:"pitchDeckUrl"`
	VideoPitchURL string `json:"videoPitchUrl"`
	CnrcURL       string `json:"cnrcUrl"`

	// Relations
	Financials      []FinancialRecord `gorm:"foreignKey:StartupID" json:"financials,omitempty"`
	FundingRequests []FundingRequest  `gorm:"foreignKey:StartupID" json:"fundingRequests,omitempty"`
}
