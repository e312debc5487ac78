// Package testutil provides in-memory databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"

	"djisr/config"
	"djisr/database"
	"djisr/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture account.
const TestPassword = "s3cretpass"

// NewTestDB returns a migrated in-memory SQLite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	// One connection: every new connection would see a fresh empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// UseTestDB installs a fresh database and config as the process globals for the test.
func UseTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := NewTestDB(t)
	prevDB, prevCfg := database.Database, config.AppConfig
	database.Database = database.DbInstance{Db: db}
	config.AppConfig = TestConfig(t)
	t.Cleanup(func() {
		database.Database = prevDB
		config.AppConfig = prevCfg
	})
	return db
}

// TestConfig is a config suitable for handler tests.
func TestConfig(t *testing.T) *config.Config {
	return &config.Config{
		Port:             "0",
		DBDriver:         "sqlite",
		JWTKey:           "test-secret",
		JWTExpiry:        config.DefaultJWTExpiry,
		SaltRound:        bcrypt.MinCost,
		AIServiceURL:     "http://127.0.0.1:1",
		AIServiceTimeout: config.DefaultAIServiceTimeout,
		UploadDir:        t.TempDir(),
		MaxUploadBytes:   1 << 20,
		CORSOrigins:      "*",
		ProxyHeader:      "X-Forwarded-For",
	}
}

func hash(t *testing.T) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// CreateStartup stores a startup with a complete risk profile.
func CreateStartup(t *testing.T, db *gorm.DB, name string) *models.Startup {
	t.Helper()

	s := &models.Startup{
		Email:               fmt.Sprintf("%s@startup.test", name),
		Password:            hash(t),
		CompanyName:         name,
		FounderName:         "Founder of " + name,
		Description:         "We build " + name + " for arid climates and beyond",
		Sector:              "agritech",
		ExperienceYears:     6,
		NumFounders:         2,
		HasTechnicalFounder: true,
		MonthlyUsers:        1500,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

// CreateInvestor stores an investor account.
func CreateInvestor(t *testing.T, db *gorm.DB, name string) *models.Investor {
	t.Helper()

	inv := &models.Investor{
		Email:    fmt.Sprintf("%s@investor.test", name),
		Password: hash(t),
		FullName: name + " Capital",
	}
	require.NoError(t, db.Create(inv).Error)
	return inv
}

// CreateFundingRequest stores an active equity deal for the startup.
func CreateFundingRequest(t *testing.T, db *gorm.DB, startupID uint, amount, equity int64) *models.FundingRequest {
	t.Helper()

	fr := &models.FundingRequest{
		StartupID:       startupID,
		AmountRequested: decimal.NewFromInt(amount),
		EquityOffered:   decimal.NewNullDecimal(decimal.NewFromInt(equity)),
		OfferType:       models.OfferTypeEquity,
		RiskScore:       40,
		RiskLevel:       models.RiskMedium,
		IsActive:        true,
	}
	require.NoError(t, db.Create(fr).Error)
	return fr
}

// CreateOffer stores an offer row directly, bypassing negotiation rules.
func CreateOffer(t *testing.T, db *gorm.DB, investorID, fundingRequestID uint, amount, equity string, status string) *models.InvestmentOffer {
	t.Helper()

	o := &models.InvestmentOffer{
		InvestorID:       investorID,
		FundingRequestID: fundingRequestID,
		ProposedAmount:   decimal.RequireFromString(amount),
		Status:           status,
	}
	if equity != "" {
		o.ProposedEquity = decimal.NewNullDecimal(decimal.RequireFromString(equity))
	}
	require.NoError(t, db.Create(o).Error)
	return o
}
