package controller

import (
	"context"

	"hk-explorer-be/internal/pkg/serverutils"
	"hk-explorer-be/internal/tools"
	forumws "hk-explorer-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ForumReader lists a challenge's forum, newest first.
type ForumReader interface {
	GetForumMessages(ctx context.Context, challengeId string, limit int) ([]tools.ForumMessage, error)
}

type IForumController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	ListMessages(ctx *fiber.Ctx) error
}

type forumController struct {
	reader ForumReader
	hub    *forumws.Hub
}

// NewForumController serves the forum. hub may be nil, which disables the live feed.
func NewForumController(reader ForumReader, hub *forumws.Hub) IForumController {
	return &forumController{reader: reader, hub: hub}
}

func (c *forumController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/forum", auth)
	h.Get("/:challengeId/messages", c.ListMessages)
	if c.hub != nil {
		h.Get("/:challengeId/live", upgradeOnly, websocket.New(func(conn *websocket.Conn) {
			uid, _ := conn.Locals("user_id").(string)
			forumws.ServeWs(c.hub, conn, conn.Params("challengeId"), uid)
		}))
	}
}

func upgradeOnly(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (c *forumController) ListMessages(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", tools.DefaultForumLimit)
	msgs, err := c.reader.GetForumMessages(ctx.UserContext(), ctx.Params("challengeId"), limit)
	if err != nil {
		return serverutils.Upstream("list forum messages", err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get forum messages", msgs))
}
