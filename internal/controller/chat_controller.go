package controller

import (
	"prepareup-be/internal/dto"
	"prepareup-be/internal/pkg/serverutils"
	"prepareup-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService    service.IChatService
	sessionService service.ISessionService
	auth           *serverutils.AuthMiddleware
}

func NewChatController(
	chatService service.IChatService,
	sessionService service.ISessionService,
	auth *serverutils.AuthMiddleware,
) IChatController {
	return &chatController{
		chatService:    chatService,
		sessionService: sessionService,
		auth:           auth,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.auth.Optional, c.Chat)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	var userId *uuid.UUID
	userKey := serverutils.UserIdFromCtx(ctx)
	if userKey != "" {
		if id, err := uuid.Parse(userKey); err == nil {
			userId = &id
		}
	}

	res, err := c.chatService.Chat(ctx.Context(), userId, &req)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(serverutils.ErrorResponse(fe.Code, fe.Message))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	if userKey != "" {
		c.sessionService.RecordChat(userKey, req.SessionId, req.Message, res.Answer)
	}

	return ctx.JSON(res)
}
