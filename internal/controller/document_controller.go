package controller

import (
	"github.com/YohanReddy/ai-chatbot/internal/pkg/chaterror"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/serverutils"
	"github.com/YohanReddy/ai-chatbot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	GetRevisions(ctx *fiber.Ctx) error
}

type documentController struct {
	service  service.IDocumentService
	resolver serverutils.IdentityResolver
}

func NewDocumentController(service service.IDocumentService, resolver serverutils.IdentityResolver) IDocumentController {
	return &documentController{service: service, resolver: resolver}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	r.Get("/document", c.GetRevisions)
}

func (c *documentController) GetRevisions(ctx *fiber.Ctx) error {
	id := ctx.Query("id")
	if id == "" {
		return chaterror.New(chaterror.BadRequest, chaterror.SurfaceApi, "Parameter id is missing")
	}

	principal, err := c.resolver.Resolve(ctx)
	if err != nil {
		return chaterror.New(chaterror.Unauthorized, chaterror.SurfaceDocument)
	}

	res, err := c.service.GetDocuments(ctx.UserContext(), principal, id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
