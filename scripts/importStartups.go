package main

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"djisr/config"
	"djisr/database"
	"djisr/logger"
	"djisr/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

// Seeds startups for demo environments:
//
//	go run ./scripts [startups.csv]
//
// Rows are keyed on email; re-running updates the profile fields and keeps
// the existing password.
func main() {
	config.LoadConfig()
	if err := logger.Init(logger.Config{Level: config.AppConfig.LogLevel, Format: config.AppConfig.LogFormat}); err != nil {
		panic(err)
	}
	defer logger.Sync()
	database.ConnectDb()

	path := "startups.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Fatal("Failed to open CSV file", "path", path, "error", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		logger.Fatal("Failed to read CSV", "error", err)
	}
	if len(records) < 2 {
		logger.Fatal("CSV file is empty or has only headers", "path", path)
	}

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.TrimSpace(h)] = i
	}

	defaultPassword := os.Getenv("SEED_PASSWORD")
	if defaultPassword == "" {
		defaultPassword = "changeme123"
	}

	imported, skipped := 0, 0
	for i, row := range records[1:] {
		email := strings.ToLower(getField(row, headerIndex, "email"))
		if email == "" || getField(row, headerIndex, "companyName") == "" {
			skipped++
			continue
		}

		password := getField(row, headerIndex, "password")
		if password == "" {
			password = defaultPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
		if err != nil {
			logger.Error("Error hashing password", "row", i+2, "error", err)
			skipped++
			continue
		}

		startup := models.Startup{
			Email:               email,
			Password:            string(hashed),
			CompanyName:         getField(row, headerIndex, "companyName"),
			FounderName:         getField(row, headerIndex, "founderName"),
			Description:         getField(row, headerIndex, "description"),
			Sector:              getField(row, headerIndex, "sector"),
			ExperienceYears:     parseFloat(getField(row, headerIndex, "experienceYears")),
			NumFounders:         parseInt(getField(row, headerIndex, "numFounders"), 1),
			HasTechnicalFounder: parseBool(getField(row, headerIndex, "hasTechnicalFounder")),
			MonthlyUsers:        parseInt(getField(row, headerIndex, "monthlyUsers"), 0),
			WebsiteURL:          getField(row, headerIndex, "websiteUrl"),
		}

		err = database.Database.Db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"company_name", "founder_name", "description", "sector", "experience_years",
				"num_founders", "has_technical_founder", "monthly_users", "website_url", "updated_at",
			}),
		}).Create(&startup).Error
		if err != nil {
			logger.Error("Error importing startup", "row", i+2, "email", email, "error", err)
			skipped++
			continue
		}
		imported++
	}

	logger.Info("Import complete", "imported", imported, "skipped", skipped)
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseInt(s string, fallback int) int {
	val, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return val
}

func parseFloat(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val
}

func parseBool(s string) bool {
	val, _ := strconv.ParseBool(strings.ToLower(s))
	return val
}
