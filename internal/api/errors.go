package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/chainwork-labs/escrowpad/internal/models"
)

// statusForCode maps the error taxonomy onto HTTP statuses in one place.
func statusForCode(code models.ErrorCode) int {
	switch code {
	case models.ErrCodeValidation, models.ErrCodeInvalidAddress, models.ErrCodeUserRejected:
		return fiber.StatusBadRequest
	case models.ErrCodeWalletNotConnected:
		return fiber.StatusUnauthorized
	case models.ErrCodeInsufficientFunds:
		return fiber.StatusPaymentRequired
	case models.ErrCodeNotFound, models.ErrCodeEscrowNotFound:
		return fiber.StatusNotFound
	case models.ErrCodeStateConflict, models.ErrCodeDuplicateID:
		return fiber.StatusConflict
	case models.ErrCodeExternalProgram:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return c.Status(statusForCode(appErr.Code)).JSON(fiber.Map{
			"code":  appErr.Code,
			"error": appErr.Message,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
