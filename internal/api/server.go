package api

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iamaamunir/chat-app/internal/metrics"
	"github.com/iamaamunir/chat-app/internal/ws"
)

// NewServer wires the HTTP surface: the static chat page, room history,
// the websocket upgrade endpoint, and a liveness probe that pings both
// stores.
func NewServer(relay *ws.Relay, chats ChatFinder, members RoomMembers, mongoClient *mongo.Client, pgPool *pgxpool.Pool) *fiber.App {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(requestDuration())

	app.Static("/", "./web")

	h := NewHandlers(chats, members)
	app.Get("/api/chat/:roomName", h.listRoomChats)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		status := fiber.Map{"status": "ok"}
		code := fiber.StatusOK
		if err := mongoClient.Ping(ctx, nil); err != nil {
			status["mongo"] = err.Error()
			code = fiber.StatusServiceUnavailable
		}
		if err := pgPool.Ping(ctx); err != nil {
			status["postgres"] = err.Error()
			code = fiber.StatusServiceUnavailable
		}
		if code != fiber.StatusOK {
			status["status"] = "degraded"
		}
		return c.Status(code).JSON(status)
	})

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(relay.Handle))

	return app
}

func requestDuration() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := float64(time.Since(start).Milliseconds())
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Method(), c.Route().Path, strconv.Itoa(c.Response().StatusCode()),
		).Observe(elapsed)
		return err
	}
}
