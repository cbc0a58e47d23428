package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/iamaamunir/chat-app/internal/models"
)

// ChatFinder is the read surface for room history.
type ChatFinder interface {
	FindByRoom(ctx context.Context, roomName string, limit int64) ([]*models.ChatDocument, error)
}

// RoomMembers reports who is currently present in a room. Nil when no
// presence backend is configured.
type RoomMembers interface {
	Members(ctx context.Context, room string) ([]string, error)
}

type Handlers struct {
	chats   ChatFinder
	members RoomMembers
}

func NewHandlers(chats ChatFinder, members RoomMembers) *Handlers {
	return &Handlers{chats: chats, members: members}
}

// listRoomChats returns a room's chats oldest first, with the current
// presence list when a presence backend is available.
func (h *Handlers) listRoomChats(c *fiber.Ctx) error {
	roomName := c.Params("roomName")
	limit := int64(c.QueryInt("limit", 50))

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	chats, err := h.chats.FindByRoom(ctx, roomName, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	resp := fiber.Map{"status": "ok", "data": chats}
	if h.members != nil {
		if online, err := h.members.Members(ctx, roomName); err == nil {
			resp["members"] = online
		}
	}
	return c.JSON(resp)
}
