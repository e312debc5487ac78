package dealValidator

import (
	"encoding/json"
	"strconv"

	"djisr/middleware"
	"djisr/models"
	"djisr/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateDealRequest struct {
	AmountRequested decimal.Decimal     `json:"amountRequested"`
	EquityOffered   decimal.NullDecimal `json:"equityOffered"`
	OfferType       string              `json:"offerType" validate:"oneof=EQUITY ROYALTY"`
}

// MakeOfferRequest accepts the deal id as a JSON number or numeric string.
type MakeOfferRequest struct {
	FundingRequestID json.Number         `json:"fundingRequestId"`
	ProposedAmount   decimal.Decimal     `json:"proposedAmount"`
	ProposedEquity   decimal.NullDecimal `json:"proposedEquity"`

	ID int64 `json:"-"`
}

type RespondRequest struct {
	OfferID json.Number `json:"offerId"`
	Status  string      `json:"status"`

	ID uint `json:"-"`
}

func positiveID(n json.Number) (int64, bool) {
	id, err := strconv.ParseInt(n.String(), 10, 64)
	return id, err == nil && id > 0
}

// CreateDeal validator middleware
func CreateDeal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateDealRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Struct(reqData)
		validators.Positive(errors, "amountRequested", reqData.AmountRequested)
		validators.Percentage(errors, "equityOffered", reqData.EquityOffered)
		if reqData.OfferType == models.OfferTypeEquity && !reqData.EquityOffered.Valid {
			errors["equityOffered"] = "equityOffered is required for EQUITY offers!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDeal", reqData)
		return c.Next()
	}
}

// MakeOffer validator middleware
func MakeOffer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(MakeOfferRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		id, ok := positiveID(reqData.FundingRequestID)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Funding Request ID", nil)
		}
		reqData.ID = id

		errors := validators.Struct(reqData)
		validators.Positive(errors, "proposedAmount", reqData.ProposedAmount)
		validators.Percentage(errors, "proposedEquity", reqData.ProposedEquity)
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedOffer", reqData)
		return c.Next()
	}
}

// RespondToOffer validator middleware
func RespondToOffer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RespondRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Status != models.OfferAccepted && reqData.Status != models.OfferRejected {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status. Use ACCEPTED or REJECTED.", nil)
		}
		id, ok := positiveID(reqData.OfferID)
		if !ok {
			return middleware.ValidationErrorResponse(c, map[string]string{"offerId": "offerId must be a positive integer!"})
		}
		reqData.ID = uint(id)

		c.Locals("validatedResponse", reqData)
		return c.Next()
	}
}
