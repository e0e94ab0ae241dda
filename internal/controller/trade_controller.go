package controller

import (
	"fintrust-support-be/internal/dto"
	"fintrust-support-be/internal/pkg/apperror"
	"fintrust-support-be/internal/pkg/serverutils"
	"fintrust-support-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITradeController interface {
	RegisterRoutes(r fiber.Router)
	TradeCompleted(ctx *fiber.Ctx) error
}

type tradeController struct {
	service service.ITradeService
}

func NewTradeController(service service.ITradeService) ITradeController {
	return &tradeController{service: service}
}

func (c *tradeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/trades")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/completed", c.TradeCompleted)
}

func (c *tradeController) TradeCompleted(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.TradeCompletedRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.PublishTradeCompleted(ctx.Context(), actor, &req); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[interface{}]("Trade completion queued", nil))
}
