package authValidator

import (
	"strings"

	"djisr/middleware"
	"djisr/validators"

	"github.com/gofiber/fiber/v2"
)

// StartupSignupRequest is the text part of the multipart startup signup.
type StartupSignupRequest struct {
	Email               string  `json:"email" form:"email" validate:"required,email"`
	Password            string  `json:"password" form:"password" validate:"min=8"`
	CompanyName         string  `json:"companyName" form:"companyName" validate:"required,max=150"`
	FounderName         string  `json:"founderName" form:"founderName" validate:"max=150"`
	Phone               string  `json:"phone" form:"phone" validate:"max=30"`
	WebsiteURL          string  `json:"websiteUrl" form:"websiteUrl" validate:"omitempty,url"`
	LinkedinURL         string  `json:"linkedinUrl" form:"linkedinUrl" validate:"omitempty,url"`
	Description         string  `json:"description" form:"description"`
	Sector              string  `json:"sector" form:"sector" validate:"max=100"`
	NumFounders         int     `json:"numFounders" form:"numFounders" validate:"gte=0"`
	HasTechnicalFounder bool    `json:"hasTechnicalFounder" form:"hasTechnicalFounder"`
	ExperienceYears     float64 `json:"experienceYears" form:"experienceYears" validate:"gte=0"`
	MonthlyUsers        int     `json:"monthlyUsers" form:"monthlyUsers" validate:"gte=0"`
}

type InvestorSignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
	FullName string `json:"fullName" validate:"required,max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StartupSignup validator middleware
func StartupSignup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(StartupSignupRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Email = normalizeEmail(reqData.Email)
		reqData.CompanyName = strings.TrimSpace(reqData.CompanyName)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		if strings.TrimSpace(reqData.Description) == "" {
			reqData.Description = "New Startup Pitch"
		}
		if reqData.NumFounders == 0 {
			reqData.NumFounders = 1
		}

		c.Locals("validatedStartupSignup", reqData)
		return c.Next()
	}
}

// InvestorSignup validator middleware
func InvestorSignup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(InvestorSignupRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Email = normalizeEmail(reqData.Email)
		reqData.FullName = strings.TrimSpace(reqData.FullName)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedInvestorSignup", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Email = normalizeEmail(reqData.Email)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

type LoginHistoryRequest struct {
	Page  int `query:"page" validate:"gte=1"`
	Limit int `query:"limit" validate:"gte=1,lte=100"`
}

// LoginHistoryList validator middleware. page defaults to 1 and limit to 20.
func LoginHistoryList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &LoginHistoryRequest{Page: 1, Limit: 20}
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLoginHistory", reqData)
		return c.Next()
	}
}
