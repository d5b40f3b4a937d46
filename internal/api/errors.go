package api

import (
	"errors"
	"log/slog"

	"booking-service/internal/ledger"
	"booking-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

func rejectionStatus(reason ledger.Reason) int {
	switch reason.Kind() {
	case ledger.KindNotFound:
		return fiber.StatusNotFound
	case ledger.KindConflict, ledger.KindCapacityExceeded:
		return fiber.StatusConflict
	case ledger.KindCreditExhausted:
		return fiber.StatusPaymentRequired
	default:
		return fiber.StatusUnprocessableEntity
	}
}

func respondRejected(c *fiber.Ctx, reason ledger.Reason) error {
	return c.Status(rejectionStatus(reason)).JSON(fiber.Map{
		"error":  reason.Message(),
		"reason": reason,
	})
}

// respondFailure answers store failures with 500, or 503 when the store timed out.
func respondFailure(c *fiber.Ctx, err error) error {
	var storeErr *service.StoreError
	if errors.As(err, &storeErr) {
		status := fiber.StatusInternalServerError
		if storeErr.Timeout() {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{"error": "Ledger store unavailable", "reason": "STORE_ERROR"})
	}

	slog.ErrorContext(c.UserContext(), "Request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
