package middleware

import (
	"errors"

	"djisr/apperrors"
	"djisr/logger"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  false,
		"message": "Validation failed!",
		"code":    "VALIDATION_ERROR",
		"data":    errors,
	})
}

// ErrorResponse writes err using its kind. Unknown errors are logged and
// reported as a generic 500.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if appErr.Kind == apperrors.KindInternal || appErr.Kind == apperrors.KindExternal {
			logger.Error(appErr.Message, "error", appErr.Err, "method", c.Method(), "path", c.Path())
		}
		return c.Status(appErr.StatusCode).JSON(fiber.Map{
			"status":  false,
			"message": appErr.Message,
			"code":    appErr.Code,
			"data":    nil,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"status":  false,
			"message": fe.Message,
			"data":    nil,
		})
	}

	logger.Error("Unhandled error", "error", err, "method", c.Method(), "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":  false,
		"message": "Internal server error",
		"code":    "INTERNAL_ERROR",
		"data":    nil,
	})
}

// ErrorHandler is the fiber.Config ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return ErrorResponse(c, err)
}
