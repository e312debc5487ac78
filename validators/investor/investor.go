package investorValidator

import (
	"encoding/json"
	"strings"

	"djisr/middleware"
	"djisr/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Sectors accepts a JSON array or a comma separated string.
type Sectors []string

func (s *Sectors) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = Sectors(list)
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*s = Sectors{joined}
	return nil
}

// Normalize splits comma separated entries and drops blanks.
func (s Sectors) Normalize() []string {
	out := make([]string, 0, len(s))
	for _, entry := range s {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

type ProfileRequest struct {
	Biography *string `json:"biography" form:"biography" validate:"omitempty,max=5000"`
	Sectors   Sectors `json:"sectors" form:"sectors"`
}

type OpportunityRequest struct {
	Title       string              `json:"title" validate:"required,max=200"`
	Description string              `json:"description" validate:"max=5000"`
	Budget      decimal.NullDecimal `json:"budget"`
}

// UpdateProfile validator middleware
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

// CreateOpportunity validator middleware
func CreateOpportunity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(OpportunityRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		errors := validators.Struct(reqData)
		if reqData.Budget.Valid && reqData.Budget.Decimal.IsNegative() {
			errors["budget"] = "budget cannot be negative!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedOpportunity", reqData)
		return c.Next()
	}
}
