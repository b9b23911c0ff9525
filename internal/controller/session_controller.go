package controller

import (
	"prepareup-be/internal/pkg/serverutils"
	"prepareup-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Open(ctx *fiber.Ctx) error
	StartNew(ctx *fiber.Ctx) error
	Active(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
	auth           *serverutils.AuthMiddleware
}

func NewSessionController(sessionService service.ISessionService, auth *serverutils.AuthMiddleware) ISessionController {
	return &sessionController{
		sessionService: sessionService,
		auth:           auth,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Use(c.auth.Require)
	h.Get("", c.List)
	h.Get("active", c.Active)
	h.Post("new", c.StartNew)
	h.Post(":id/open", c.Open)
}

// List returns the recency-ordered thread list. Query params: q for the
// title filter, reveals for how many "show more" steps have been taken.
func (c *sessionController) List(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	query := ctx.Query("q")
	reveals := ctx.QueryInt("reveals", 0)

	res := c.sessionService.ListThreads(userId, query, reveals)
	return ctx.JSON(serverutils.SuccessResponse("Thread list", res))
}

func (c *sessionController) Open(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	res := c.sessionService.OpenThread(userId, ctx.Params("id"))
	if res.Session == nil {
		// Unknown ids are ignored rather than failed; the client keeps
		// its current view.
		return ctx.JSON(serverutils.SuccessResponse("Thread not found, active unchanged", res))
	}
	return ctx.JSON(serverutils.SuccessResponse("Thread opened", res))
}

func (c *sessionController) StartNew(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	c.sessionService.StartNew(userId)
	return ctx.JSON(serverutils.SuccessResponse[any]("New chat started", nil))
}

func (c *sessionController) Active(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	return ctx.JSON(serverutils.SuccessResponse("Active thread", c.sessionService.Active(userId)))
}
