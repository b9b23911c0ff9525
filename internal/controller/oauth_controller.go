package controller

import (
	"prepareup-be/internal/dto"
	"prepareup-be/internal/pkg/serverutils"
	"prepareup-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	GoogleLogin(ctx *fiber.Ctx) error
	DiscordLogin(ctx *fiber.Ctx) error
	DiscordCallback(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type oauthController struct {
	oauthService service.IOAuthService
	auth         *serverutils.AuthMiddleware
}

func NewOAuthController(oauthService service.IOAuthService, auth *serverutils.AuthMiddleware) IOAuthController {
	return &oauthController{
		oauthService: oauthService,
		auth:         auth,
	}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("google", c.GoogleLogin)
	h.Get("discord", c.DiscordLogin)
	h.Get("discord/callback", c.DiscordCallback)
	h.Post("refresh", c.Refresh)
	h.Post("logout", c.auth.Require, c.Logout)
	h.Get("me", c.auth.Require, c.Me)
}

func (c *oauthController) GoogleLogin(ctx *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.oauthService.LoginWithGoogle(ctx.Context(), req.IdToken)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(serverutils.ErrorResponse(fe.Code, fe.Message))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Logged in", res))
}

func (c *oauthController) DiscordLogin(ctx *fiber.Ctx) error {
	url, err := c.oauthService.GetDiscordLoginURL()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(serverutils.ErrorResponse(fe.Code, fe.Message))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.Redirect(url, fiber.StatusTemporaryRedirect)
}

func (c *oauthController) DiscordCallback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing code"))
	}

	res, err := c.oauthService.HandleDiscordCallback(ctx.Context(), code)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(serverutils.ErrorResponse(fe.Code, fe.Message))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Logged in", res))
}

func (c *oauthController) Refresh(ctx *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.oauthService.Refresh(ctx.Context(), req.RefreshToken)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(serverutils.ErrorResponse(fe.Code, fe.Message))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Token refreshed", res))
}

func (c *oauthController) Logout(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token"))
	}
	if err := c.oauthService.Logout(ctx.Context(), userId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out", nil))
}

func (c *oauthController) Me(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(serverutils.UserIdFromCtx(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token"))
	}

	res, err := c.oauthService.Me(ctx.Context(), userId)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(serverutils.ErrorResponse(fe.Code, fe.Message))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}
