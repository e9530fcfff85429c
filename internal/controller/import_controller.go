package controller

import (
	"hk-explorer-be/internal/dto"
	"hk-explorer-be/internal/pkg/serverutils"
	"hk-explorer-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IImportController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	ImportChallenges(ctx *fiber.Ctx) error
}

type importController struct {
	service service.IImportService
}

func NewImportController(service service.IImportService) IImportController {
	return &importController{service: service}
}

func (c *importController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/challenges", auth)
	h.Post("/import", c.ImportChallenges)
}

// ImportChallenges queues the batch and answers 202.
func (c *importController) ImportChallenges(ctx *fiber.Ctx) error {
	var req dto.ImportChallengesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Enqueue(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.ResponseWithCode(fiber.StatusAccepted, "Import queued", res))
}
