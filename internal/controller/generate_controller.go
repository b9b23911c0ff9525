package controller

import (
	"prepareup-be/internal/dto"
	"prepareup-be/internal/pkg/serverutils"
	"prepareup-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerateController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
}

type generateController struct {
	generateService service.IGenerateService
	sessionService  service.ISessionService
	auth            *serverutils.AuthMiddleware
}

func NewGenerateController(
	generateService service.IGenerateService,
	sessionService service.ISessionService,
	auth *serverutils.AuthMiddleware,
) IGenerateController {
	return &generateController{
		generateService: generateService,
		sessionService:  sessionService,
		auth:            auth,
	}
}

func (c *generateController) RegisterRoutes(r fiber.Router) {
	r.Post("/generate", c.auth.Optional, c.Generate)
}

func (c *generateController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateRequest
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

	payload, err := c.generateService.Generate(ctx.Context(), userId, &req)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(serverutils.ErrorResponse(fe.Code, fe.Message))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	if userKey != "" {
		c.sessionService.RecordGeneration(userKey, req.SessionId, req.OutputType, payload)
	}

	// The structured artifact is the whole response body, matching what
	// the study view renders.
	ctx.Set("Content-Type", "application/json")
	return ctx.Send(payload)
}
