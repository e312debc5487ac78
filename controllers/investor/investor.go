package investorController

import (
	"errors"

	"djisr/database"
	"djisr/logger"
	"djisr/middleware"
	"djisr/models"
	"djisr/services"
	"djisr/services/negotiation"
	dealValidator "djisr/validators/deal"
	investorValidator "djisr/validators/investor"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MakeOffer creates the investor's offer on a deal or revises it as a counter-offer.
func MakeOffer(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOffer").(*dealValidator.MakeOfferRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offer, err := services.Negotiation().SubmitOffer(c.UserContext(), middleware.UserID(c), negotiation.OfferInput{
		FundingRequestID: reqData.ID,
		ProposedAmount:   reqData.ProposedAmount,
		ProposedEquity:   reqData.ProposedEquity,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if offer.Status == models.OfferCounterOffer {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Offer updated as counter-offer.", offer)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Offer sent successfully.", offer)
}

func Portfolio(c *fiber.Ctx) error {
	dashboard, err := services.Portfolio().InvestorDashboard(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Portfolio dashboard.", dashboard)
}

func UpdateProfile(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedProfile").(*investorValidator.ProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())
	investorID := middleware.UserID(c)

	var investor models.Investor
	if err := db.First(&investor, investorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Investor not found", nil)
		}
		logger.Error("Error loading investor", "investorId", investorID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Biography != nil {
		updates["biography"] = *reqData.Biography
	}
	if reqData.Sectors != nil {
		updates["sectors"] = datatypes.NewJSONSlice(reqData.Sectors.Normalize())
	}
	if len(updates) > 0 {
		if err := db.Model(&investor).Updates(updates).Error; err != nil {
			logger.Error("Error updating investor", "investorId", investorID, "error", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
		}
	}

	if err := db.First(&investor, investorID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated.", investor)
}

// CreateOpportunity posts a reverse-market ask on behalf of the investor.
func CreateOpportunity(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOpportunity").(*investorValidator.OpportunityRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	opportunity := models.Opportunity{
		InvestorID:  middleware.UserID(c),
		Title:       reqData.Title,
		Description: reqData.Description,
		Budget:      reqData.Budget,
	}
	if err := database.Database.Db.WithContext(c.UserContext()).Create(&opportunity).Error; err != nil {
		logger.Error("Error saving opportunity", "investorId", opportunity.InvestorID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create opportunity!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Opportunity created.", opportunity)
}
