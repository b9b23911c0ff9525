package controller

import (
	"io"

	"prepareup-be/internal/pkg/serverutils"
	"prepareup-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUploadController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
}

type uploadController struct {
	uploadService  service.IUploadService
	sessionService service.ISessionService
	auth           *serverutils.AuthMiddleware
}

func NewUploadController(
	uploadService service.IUploadService,
	sessionService service.ISessionService,
	auth *serverutils.AuthMiddleware,
) IUploadController {
	return &uploadController{
		uploadService:  uploadService,
		sessionService: sessionService,
		auth:           auth,
	}
}

func (c *uploadController) RegisterRoutes(r fiber.Router) {
	// Anonymous uploads are allowed; a token only attributes the documents.
	r.Post("/upload", c.auth.Optional, c.Upload)
}

func (c *uploadController) Upload(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Expected multipart form data."))
	}

	headers := form.File["files"]
	inputs := make([]service.UploadInput, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Could not read uploaded file: "+fh.Filename))
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Could not read uploaded file: "+fh.Filename))
		}
		inputs = append(inputs, service.UploadInput{
			Name: fh.Filename,
			Mime: fh.Header.Get("Content-Type"),
			Data: data,
		})
	}

	var userId *uuid.UUID
	userKey := serverutils.UserIdFromCtx(ctx)
	if userKey != "" {
		if id, err := uuid.Parse(userKey); err == nil {
			userId = &id
		}
	}

	res, err := c.uploadService.Upload(ctx.Context(), userId, inputs)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(serverutils.ErrorResponse(fe.Code, fe.Message))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	if userKey != "" {
		c.sessionService.RecordUpload(userKey, res)
	}

	// The upload payload is consumed directly by the web client; it keeps
	// the original flat shape rather than the standard envelope.
	return ctx.JSON(res)
}
