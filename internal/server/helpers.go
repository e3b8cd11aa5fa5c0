package server

import (
	"github.com/gofiber/fiber/v2"

	"pulsepost/internal/models"
)

// statusForCode maps application error codes to HTTP statuses. Anything
// unmapped is a 500.
func statusForCode(code string) int {
	switch code {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeValidation, models.CodeUnknownToken, models.CodeNotLinked:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeUpstreamUnavailable:
		return fiber.StatusBadGateway
	case models.CodeMisconfiguredCredentials, models.CodeGenerationFailed:
		return fiber.StatusInternalServerError
	case models.CodePublishRejected:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// respondAppError writes an error response with a status derived from the
// error's application code.
func respondAppError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForCode(models.ErrorCode(err)), err)
}
