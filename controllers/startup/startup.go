package startupController

import (
	"errors"
	"strings"

	"djisr/config"
	"djisr/database"
	"djisr/logger"
	"djisr/middleware"
	"djisr/models"
	"djisr/services"
	"djisr/utils"
	dealValidator "djisr/validators/deal"
	startupValidator "djisr/validators/startup"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var profileFiles = map[string]string{
	"logo":      utils.FolderLogos,
	"pitchDeck": utils.FolderPitchDecks,
	"cnrc":      utils.FolderLegal,
}

var financialFiles = map[string]string{
	"proofDocument": utils.FolderProofs,
}

// UpdateProfile edits the startup's public details and documents. The
// metrics used for risk scoring are not editable here.
func UpdateProfile(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedProfile").(*startupValidator.ProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())
	startupID := middleware.UserID(c)

	var startup models.Startup
	if err := db.First(&startup, startupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Startup not found", nil)
		}
		logger.Error("Error loading startup", "startupId", startupID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	files, err := utils.SaveFormFiles(c, config.AppConfig.UploadDir, config.AppConfig.MaxUploadBytes, profileFiles)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	updates := map[string]interface{}{}
	if reqData.Description != nil {
		updates["description"] = strings.TrimSpace(*reqData.Description)
	}
	if reqData.Phone != nil {
		updates["phone"] = strings.TrimSpace(*reqData.Phone)
	}
	if reqData.WebsiteURL != nil {
		updates["website_url"] = strings.TrimSpace(*reqData.WebsiteURL)
	}
	if url, ok := files["logo"]; ok {
		updates["logo_url"] = url
	}
	if url, ok := files["pitchDeck"]; ok {
		updates["pitch_deck_url"] = url
	}
	if url, ok := files["cnrc"]; ok {
		updates["cnrc_url"] = url
	}

	if len(updates) > 0 {
		if err := db.Model(&startup).Updates(updates).Error; err != nil {
			utils.RemoveUploadedFiles(config.AppConfig.UploadDir, files)
			logger.Error("Error updating startup", "startupId", startupID, "error", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
		}
	}

	if err := db.First(&startup, startupID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated.", startup)
}

// AddFinancials records one month of figures. Posting the same month again
// overwrites it.
func AddFinancials(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedFinancial").(*startupValidator.FinancialRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	files, err := utils.SaveFormFiles(c, config.AppConfig.UploadDir, config.AppConfig.MaxUploadBytes, financialFiles)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	db := database.Database.Db.WithContext(c.UserContext())
	startupID := middleware.UserID(c)

	if err := db.Select("id").First(&models.Startup{}, startupID).Error; err != nil {
		utils.RemoveUploadedFiles(config.AppConfig.UploadDir, files)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Startup not found", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save financial record!", nil)
	}

	record := models.FinancialRecord{
		StartupID:        startupID,
		Month:            reqData.MonthStart,
		Revenue:          reqData.RevenueAmount,
		Costs:            reqData.CostsAmount,
		ProofDocumentURL: files["proofDocument"],
	}

	update := []string{"revenue", "costs", "updated_at"}
	if record.ProofDocumentURL != "" {
		update = append(update, "proof_document_url")
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "startup_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns(update),
	}).Create(&record).Error
	if err != nil {
		utils.RemoveUploadedFiles(config.AppConfig.UploadDir, files)
		logger.Error("Error saving financial record", "startupId", startupID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save financial record!", nil)
	}

	var saved models.FinancialRecord
	if err := db.Where("startup_id = ? AND month = ?", startupID, reqData.MonthStart).First(&saved).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save financial record!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Financial record saved.", saved)
}

func Dashboard(c *fiber.Ctx) error {
	dashboard, err := services.Portfolio().StartupDashboard(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Startup dashboard.", dashboard)
}

// RespondToOffer accepts or rejects an offer on one of the startup's deals.
func RespondToOffer(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedResponse").(*dealValidator.RespondRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offer, err := services.Negotiation().RespondToOffer(c.UserContext(), middleware.UserID(c), reqData.ID, reqData.Status)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Offer "+strings.ToLower(offer.Status)+" successfully", offer)
}
