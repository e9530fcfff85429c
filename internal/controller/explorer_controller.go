package controller

import (
	"hk-explorer-be/internal/dto"
	"hk-explorer-be/internal/pkg/serverutils"
	"hk-explorer-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IExplorerController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Chat(ctx *fiber.Ctx) error
	VerifyPhoto(ctx *fiber.Ctx) error
	GenerateRoute(ctx *fiber.Ctx) error
	BrowseLocations(ctx *fiber.Ctx) error
}

type explorerController struct {
	chatService         service.IChatService
	verificationService service.IVerificationService
	routeService        service.IRouteService
	browseService       service.IBrowseService
}

func NewExplorerController(
	chatService service.IChatService,
	verificationService service.IVerificationService,
	routeService service.IRouteService,
	browseService service.IBrowseService,
) IExplorerController {
	return &explorerController{
		chatService:         chatService,
		verificationService: verificationService,
		routeService:        routeService,
		browseService:       browseService,
	}
}

func (c *explorerController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/explorer", auth)
	h.Post("/chat", c.Chat)
	h.Post("/verify-photo", c.VerifyPhoto)
	h.Post("/route", c.GenerateRoute)
	h.Post("/browse", c.BrowseLocations)
}

// authenticatedUser prefers the token's subject over a client-supplied id.
func authenticatedUser(ctx *fiber.Ctx, claimed string) string {
	if uid := serverutils.UserID(ctx); uid != "" {
		return uid
	}
	return claimed
}

func (c *explorerController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.UserId = authenticatedUser(ctx, req.UserId)

	res, err := c.chatService.Chat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success chat with guide", res))
}

func (c *explorerController) VerifyPhoto(ctx *fiber.Ctx) error {
	var req dto.VerifyPhotoRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	req.UserId = authenticatedUser(ctx, req.UserId)
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.verificationService.VerifyPhoto(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success verify photo", res))
}

func (c *explorerController) GenerateRoute(ctx *fiber.Ctx) error {
	var req dto.GenerateRouteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	req.UserId = authenticatedUser(ctx, req.UserId)
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.routeService.GenerateRoute(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate route", res))
}

func (c *explorerController) BrowseLocations(ctx *fiber.Ctx) error {
	var req dto.BrowseLocationsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.browseService.BrowseLocations(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success browse locations", res))
}
