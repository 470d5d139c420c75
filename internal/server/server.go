package server

import (
	"log"

	"github.com/YohanReddy/ai-chatbot/internal/bootstrap"
	"github.com/YohanReddy/ai-chatbot/internal/config"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.App.BodyLimit,
		ErrorHandler: serverutils.ErrorHandler(container.Logger),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Type, X-Vercel-AI-Data-Stream",
	}))

	// Traces every HTTP request; spans are dropped unless a provider is installed.
	app.Use(otelfiber.Middleware())

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

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	app.Get("/ping", func(ctx *fiber.Ctx) error {
		return ctx.SendString("pong")
	})

	api := app.Group("/api")

	c.ChatController.RegisterRoutes(api)
	c.DocumentController.RegisterRoutes(api)
}
