package dealController

import (
	"djisr/middleware"
	"djisr/services"
	"djisr/services/negotiation"
	dealValidator "djisr/validators/deal"

	"github.com/gofiber/fiber/v2"
)

// CreateDeal opens a funding request for the authenticated startup. Risk
// inputs are read from the stored profile, not from the request.
func CreateDeal(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedDeal").(*dealValidator.CreateDealRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	deal, err := services.Negotiation().CreateFundingRequest(c.UserContext(), middleware.UserID(c), negotiation.DealInput{
		AmountRequested: reqData.AmountRequested,
		EquityOffered:   reqData.EquityOffered,
		OfferType:       reqData.OfferType,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Funding request created.", deal)
}

func Feed(c *fiber.Ctx) error {
	deals, err := services.Portfolio().DealFeed(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deal feed.", deals)
}
