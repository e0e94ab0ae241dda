package serverutils

import (
	"fintrust-support-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

func statusFor(code apperror.Code) int {
	switch code {
	case apperror.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case apperror.CodeForbidden:
		return fiber.StatusForbidden
	case apperror.CodeNotFound:
		return fiber.StatusNotFound
	case apperror.CodeValidation:
		return fiber.StatusBadRequest
	case apperror.CodeStateConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware maps errors bubbled out of controllers to HTTP
// responses. AppError carries the taxonomy; anything else is an internal
// error with the detail withheld from the caller.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := apperror.As(err); ok {
			return ctx.Status(statusFor(appErr.Code)).JSON(ErrorBody{
				Success: false,
				Message: appErr.Message,
				Code:    string(appErr.Code),
			})
		}

		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(ErrorBody{
				Success: false,
				Message: fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorBody{
			Success: false,
			Message: "internal server error",
		})
	}
}
