package controller

import (
	"bufio"
	"net/url"
	"strconv"

	"github.com/YohanReddy/ai-chatbot/internal/dto"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/chaterror"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/serverutils"
	"github.com/YohanReddy/ai-chatbot/internal/service"
	"github.com/YohanReddy/ai-chatbot/pkg/chat/stream"
	"github.com/YohanReddy/ai-chatbot/pkg/datastream"

	"github.com/gofiber/fiber/v2"
)

// TurnRunner streams the generation of a prepared turn to w.
type TurnRunner interface {
	Run(turn stream.Turn, w *bufio.Writer)
}

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Post(ctx *fiber.Ctx) error
	Probe(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Suggestions(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	UpdateVisibility(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService     service.IChatService
	documentService service.IDocumentService
	runner          TurnRunner
	resolver        serverutils.IdentityResolver
}

func NewChatController(
	chatService service.IChatService,
	documentService service.IDocumentService,
	runner TurnRunner,
	resolver serverutils.IdentityResolver,
) IChatController {
	return &chatController{
		chatService:     chatService,
		documentService: documentService,
		runner:          runner,
		resolver:        resolver,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("", c.Post)
	h.Get("", c.Probe)
	h.Delete("", c.Delete)
	h.Get("/history", c.History)
	h.Get("/suggestions", c.Suggestions)

	authed := serverutils.IdentityMiddleware(c.resolver, chaterror.SurfaceChat)
	h.Get("/:id", authed, c.Show)
	h.Patch("/:id/visibility", authed, c.UpdateVisibility)
}

// principal resolves the caller after the request itself has been validated,
// so malformed requests are answered with 400 before 401.
func (c *chatController) principal(ctx *fiber.Ctx, surface chaterror.Surface) (*entity.Principal, error) {
	p, err := c.resolver.Resolve(ctx)
	if err != nil {
		return nil, chaterror.New(chaterror.Unauthorized, surface)
	}
	return p, nil
}

func (c *chatController) Post(ctx *fiber.Ctx) error {
	var req dto.PostChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return chaterror.New(chaterror.BadRequest, chaterror.SurfaceApi)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	principal, err := c.principal(ctx, chaterror.SurfaceChat)
	if err != nil {
		return err
	}

	turn, err := c.chatService.StartTurn(ctx.UserContext(), principal, &req, requestHints(ctx))
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, datastream.ContentType)
	ctx.Set(datastream.HeaderName, datastream.HeaderVersion)
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Status(fiber.StatusOK)
	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		c.runner.Run(*turn, w)
	})
	return nil
}

// Probe lets clients check the endpoint without starting a turn.
func (c *chatController) Probe(ctx *fiber.Ctx) error {
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
	id := ctx.Query("id")
	if id == "" {
		return chaterror.New(chaterror.BadRequest, chaterror.SurfaceApi, "Parameter id is required.")
	}

	principal, err := c.principal(ctx, chaterror.SurfaceChat)
	if err != nil {
		return err
	}

	res, err := c.chatService.DeleteChat(ctx.UserContext(), principal, id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(res)
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	req := dto.ChatHistoryRequest{
		StartingAfter: ctx.Query("starting_after"),
		EndingBefore:  ctx.Query("ending_before"),
	}
	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return chaterror.New(chaterror.BadRequest, chaterror.SurfaceApi, "Parameter limit must be a positive integer.")
		}
		req.Limit = limit
	}
	if req.StartingAfter != "" && req.EndingBefore != "" {
		return chaterror.New(chaterror.BadRequest, chaterror.SurfaceApi,
			"Only one of starting_after or ending_before can be provided.")
	}

	principal, err := c.principal(ctx, chaterror.SurfaceChat)
	if err != nil {
		return err
	}

	res, err := c.chatService.GetHistory(ctx.UserContext(), principal, req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) Suggestions(ctx *fiber.Ctx) error {
	documentId := ctx.Query("documentId")
	if documentId == "" {
		return chaterror.New(chaterror.BadRequest, chaterror.SurfaceApi, "Parameter documentId is required.")
	}

	principal, err := c.principal(ctx, chaterror.SurfaceSuggestions)
	if err != nil {
		return err
	}

	res, err := c.documentService.GetSuggestions(ctx.UserContext(), principal, documentId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) Show(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetChat(ctx.UserContext(), serverutils.Principal(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) UpdateVisibility(ctx *fiber.Ctx) error {
	var req dto.UpdateVisibilityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return chaterror.New(chaterror.BadRequest, chaterror.SurfaceApi)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.UpdateVisibility(ctx.UserContext(), serverutils.Principal(ctx), ctx.Params("id"), req.Visibility)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

// requestHints reads the geolocation headers set by the edge network.
func requestHints(ctx *fiber.Ctx) stream.RequestHints {
	header := func(name string) string {
		v := ctx.Get(name)
		if decoded, err := url.QueryUnescape(v); err == nil {
			return decoded
		}
		return v
	}
	return stream.RequestHints{
		Latitude:  header("X-Vercel-IP-Latitude"),
		Longitude: header("X-Vercel-IP-Longitude"),
		City:      header("X-Vercel-IP-City"),
		Country:   header("X-Vercel-IP-Country"),
	}
}
