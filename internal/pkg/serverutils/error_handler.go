package serverutils

import (
	"errors"

	"github.com/YohanReddy/ai-chatbot/internal/pkg/chaterror"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error returned by a handler as a chat error body.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		if ce, ok := chaterror.As(err); ok {
			if !ce.Visible() {
				log.Error("HTTP", "database error", map[string]interface{}{
					"error":  err,
					"path":   ctx.Path(),
					"method": ctx.Method(),
				})
			}
			return ctx.Status(ce.StatusCode()).JSON(ce.Response())
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := ""
			if fe.Code == fiber.StatusBadRequest || fe.Code == fiber.StatusUnprocessableEntity {
				code = "bad_request:api"
			}
			return ctx.Status(fe.Code).JSON(chaterror.Response{Code: code, Message: fe.Message})
		}

		log.Error("HTTP", "unhandled error", map[string]interface{}{
			"error":  err,
			"path":   ctx.Path(),
			"method": ctx.Method(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(chaterror.Response{Message: chaterror.GenericMessage})
	}
}
