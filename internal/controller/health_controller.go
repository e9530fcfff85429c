package controller

import (
	"context"
	"time"

	"hk-explorer-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports store reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	db Pinger
}

func NewHealthController(db Pinger) IHealthController {
	return &healthController{db: db}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	status := fiber.Map{"status": "ok", "database": "ok"}
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
		defer cancel()
		if err := c.db.PingContext(pingCtx); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ResponseWithCode(fiber.StatusServiceUnavailable, "Service degraded", status))
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Service healthy", status))
}
