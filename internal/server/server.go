package server

import (
	"log"

	"prepareup-be/internal/bootstrap"
	"prepareup-be/internal/config"
	"prepareup-be/internal/constant"
	"prepareup-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		// Room for a full multipart batch of 20 x 25MB files.
		BodyLimit: (constant.MaxFiles + 1) * constant.MaxBytesPerFile,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.OAuthController.RegisterRoutes(api)
	c.UploadController.RegisterRoutes(api)
	c.GenerateController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)
	c.SessionController.RegisterRoutes(api)

	app.Get("/api/hello", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"message": "Hello from Prepare-Up backend"})
	})
}
