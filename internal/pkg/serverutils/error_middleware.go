package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"codelm-be/pkg/rag"
)

// ErrorHandlerMiddleware maps errors escaping a handler onto the response
// envelope. Pipeline outcomes get distinct statuses so clients can tell a
// safety block from an upstream outage.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status, message := classify(err)
		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}

func classify(err error) (int, string) {
	var blocked *rag.BlockedError
	if errors.As(err, &blocked) {
		return fiber.StatusUnprocessableEntity, blocked.Error()
	}

	switch {
	case errors.Is(err, rag.ErrUnsupportedInput):
		return fiber.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, rag.ErrUnavailable):
		return fiber.StatusBadGateway, err.Error()
	case errors.Is(err, rag.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound, "resource not found"
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, err.Error()
}
