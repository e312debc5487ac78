package startupValidator

import (
	"strings"
	"time"

	"djisr/middleware"
	"djisr/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
)

// ProfileRequest holds the editable text fields; nil means unchanged.
type ProfileRequest struct {
	Description *string `json:"description" form:"description" validate:"omitempty,max=5000"`
	Phone       *string `json:"phone" form:"phone" validate:"omitempty,max=30"`
	WebsiteURL  *string `json:"websiteUrl" form:"websiteUrl" validate:"omitempty,url"`
}

type FinancialRequest struct {
	Month   string `form:"month" json:"month" validate:"required"`
	Revenue string `form:"revenue" json:"revenue" validate:"required"`
	Costs   string `form:"costs" json:"costs" validate:"required"`

	MonthStart    time.Time       `json:"-" form:"-"`
	RevenueAmount decimal.Decimal `json:"-" form:"-"`
	CostsAmount   decimal.Decimal `json:"-" form:"-"`
}

// MonthStart parses value and returns the first instant of its month in UTC.
func MonthStart(value string) (time.Time, error) {
	t, err := now.ParseInLocation(time.UTC, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return now.With(t.UTC()).BeginningOfMonth(), nil
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

// AddFinancials validator middleware
func AddFinancials() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(FinancialRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Struct(reqData)
		if _, missing := errors["month"]; !missing {
			month, err := MonthStart(reqData.Month)
			if err != nil {
				errors["month"] = "month must be a date such as 2024-03 or 2024-03-01!"
			}
			reqData.MonthStart = month
		}
		if _, missing := errors["revenue"]; !missing {
			reqData.RevenueAmount = validators.Amount(errors, "revenue", reqData.Revenue)
		}
		if _, missing := errors["costs"]; !missing {
			reqData.CostsAmount = validators.Amount(errors, "costs", reqData.Costs)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedFinancial", reqData)
		return c.Next()
	}
}
