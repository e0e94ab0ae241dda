package controller

import (
	"fintrust-support-be/internal/dto"
	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/pkg/apperror"
	"fintrust-support-be/internal/pkg/serverutils"
	"fintrust-support-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	ListChats(ctx *fiber.Ctx) error
	GetChat(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	CreateGroupChat(ctx *fiber.Ctx) error
	EnsureTeamChat(ctx *fiber.Ctx) error
	SetStatus(ctx *fiber.Ctx) error
	Takeover(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService    service.IChatService
	messageService service.IMessageService
}

func NewChatController(chatService service.IChatService, messageService service.IMessageService) IChatController {
	return &chatController{
		chatService:    chatService,
		messageService: messageService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chats")
	h.Use(serverutils.JwtMiddleware)

	h.Get("/", c.ListChats)
	h.Post("/group", c.CreateGroupChat)
	h.Post("/team", c.EnsureTeamChat)
	h.Get("/:id", c.GetChat)
	h.Post("/:id/messages", c.SendMessage)
	h.Patch("/:id/status", c.SetStatus)
	h.Post("/:id/takeover", c.Takeover)
}

func (c *chatController) ListChats(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}

	chatType := ctx.Query("type")
	switch entity.ChatType(chatType) {
	case "", entity.ChatTypeCustomerToAgent, entity.ChatTypeTeamChat, entity.ChatTypeGroupChat:
	default:
		return apperror.Validation("unknown chat type")
	}

	items, err := c.chatService.ListChats(ctx.Context(), actor, chatType)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chats retrieved", items))
}

func (c *chatController) GetChat(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	chatId, err := pathUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.chatService.GetChat(ctx.Context(), actor, chatId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat retrieved", res))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	chatId, err := pathUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	res, err := c.messageService.Send(ctx.Context(), actor, chatId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Message sent", res))
}

func (c *chatController) CreateGroupChat(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateGroupChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.chatService.CreateGroupChat(ctx.Context(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Group chat created", res))
}

func (c *chatController) EnsureTeamChat(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.EnsureTeamChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.chatService.EnsureTeamChat(ctx.Context(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Team chat ready", res))
}

func (c *chatController) SetStatus(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	chatId, err := pathUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SetChatStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.chatService.SetStatus(ctx.Context(), actor, chatId, entity.ChatStatus(req.Status)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[interface{}]("Chat status updated", nil))
}

func (c *chatController) Takeover(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	chatId, err := pathUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.chatService.Takeover(ctx.Context(), actor, chatId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat taken over", res))
}
