package authController

import (
	"errors"
	"time"

	"djisr/config"
	"djisr/database"
	"djisr/logger"
	"djisr/middleware"
	"djisr/models"
	"djisr/utils"
	authValidator "djisr/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Multipart fields accepted on startup signup and the folder each is stored in
var startupSignupFiles = map[string]string{
	"logo":       utils.FolderLogos,
	"pitchDeck":  utils.FolderPitchDecks,
	"videoPitch": utils.FolderVideos,
	"cnrc":       utils.FolderLegal,
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	return string(hashed), err
}

func SignupStartup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedStartupSignup").(*authValidator.StartupSignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.Startup{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	files, err := utils.SaveFormFiles(c, config.AppConfig.UploadDir, config.AppConfig.MaxUploadBytes, startupSignupFiles)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	hashedPassword, err := hashPassword(reqData.Password)
	if err != nil {
		utils.RemoveUploadedFiles(config.AppConfig.UploadDir, files)
		logger.Error("Error hashing password", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	startup := models.Startup{
		Email:               reqData.Email,
		Password:            hashedPassword,
		CompanyName:         reqData.CompanyName,
		FounderName:         reqData.FounderName,
		Phone:               reqData.Phone,
		WebsiteURL:          reqData.WebsiteURL,
		LinkedinURL:         reqData.LinkedinURL,
		Description:         reqData.Description,
		Sector:              reqData.Sector,
		ExperienceYears:     reqData.ExperienceYears,
		NumFounders:         reqData.NumFounders,
		HasTechnicalFounder: reqData.HasTechnicalFounder,
		MonthlyUsers:        reqData.MonthlyUsers,
		LogoURL:             files["logo"],
		PitchDeckURL:        files["pitchDeck"],
		VideoPitchURL:       files["videoPitch"],
		CnrcURL:             files["cnrc"],
	}

	if err := db.Create(&startup).Error; err != nil {
		utils.RemoveUploadedFiles(config.AppConfig.UploadDir, files)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		logger.Error("Error saving startup", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup startup!", nil)
	}

	token, err := middleware.GenerateJWT(startup.ID, models.RoleStartup)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	logger.Info("Startup registered", "startupId", startup.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Startup registered successfully.", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":          startup.ID,
			"role":        models.RoleStartup,
			"email":       startup.Email,
			"companyName": startup.CompanyName,
			"founderName": startup.FounderName,
			"logoUrl":     startup.LogoURL,
		},
	})
}

func SignupInvestor(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedInvestorSignup").(*authValidator.InvestorSignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("email = ?", reqData.Email).First(&models.Investor{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := hashPassword(reqData.Password)
	if err != nil {
		logger.Error("Error hashing password", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	investor := models.Investor{
		Email:    reqData.Email,
		Password: hashedPassword,
		FullName: reqData.FullName,
	}
	if err := db.Create(&investor).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		logger.Error("Error saving investor", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup investor!", nil)
	}

	token, err := middleware.GenerateJWT(investor.ID, models.RoleInvestor)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	logger.Info("Investor registered", "investorId", investor.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Investor registered successfully.", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    investor.ID,
			"role":  models.RoleInvestor,
			"name":  investor.FullName,
			"email": investor.Email,
		},
	})
}

// account is the part of a startup or investor row login needs.
type account struct {
	ID       uint
	Email    string
	Password string
	Name     string
	Role     string
}

func findAccount(db *gorm.DB, email string) (*account, error) {
	var startup models.Startup
	err := db.Where("email = ?", email).First(&startup).Error
	if err == nil {
		return &account{ID: startup.ID, Email: startup.Email, Password: startup.Password, Name: startup.CompanyName, Role: models.RoleStartup}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var investor models.Investor
	err = db.Where("email = ?", email).First(&investor).Error
	if err == nil {
		return &account{ID: investor.ID, Email: investor.Email, Password: investor.Password, Name: investor.FullName, Role: models.RoleInvestor}, nil
	}
	return nil, err
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	user, err := findAccount(db, reqData.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
		}
		logger.Error("Error loading account", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	// Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	ip := c.IP()

	// Capture login tracking details
	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		Role:      user.Role,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: time.Now().UTC(),
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		logger.Warn("Error saving login tracking details", "userId", user.ID, "error", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	logger.Info("User logged in", "userId", user.ID, "role", user.Role, "ip", ip)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"role":  user.Role,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// LoginHistoryList pages through the caller's own logins, newest first.
func LoginHistoryList(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLoginHistory").(*authValidator.LoginHistoryRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())
	scope := db.Model(&models.LoginTracking{}).Where("user_id = ? AND role = ?", middleware.UserID(c), middleware.Role(c)).
		Session(&gorm.Session{})

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		logger.Error("Error counting login history", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load login history!", nil)
	}

	var history []models.LoginTracking
	if err := scope.Order("timestamp DESC").Order("id DESC").
		Offset((reqData.Page - 1) * reqData.Limit).
		Limit(reqData.Limit).
		Find(&history).Error; err != nil {
		logger.Error("Error loading login history", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load login history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", fiber.Map{
		"loginTracking": history,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}
