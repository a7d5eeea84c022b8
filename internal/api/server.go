package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/fathima-sithara/messaging-service/internal/middleware"
	"github.com/fathima-sithara/messaging-service/internal/service"
)

// NewServer wires the four messaging routes. The rate limiter is optional;
// pass nil when Redis is not configured.
func NewServer(svc *service.MessagingService, rl *middleware.RateLimiter) *fiber.App {
	app := fiber.New()
	app.Use(logger.New())
	h := NewHandlers(svc)

	api := app.Group("/api")

	send := []fiber.Handler{h.sendMessage}
	if rl != nil {
		send = append([]fiber.Handler{rl.Handler(senderKey)}, send...)
	}
	api.Post("/messages", send...)

	// user route first so "user" is not captured as a conversation id
	api.Get("/conversations/user/:user_id", h.listUserConversations)
	api.Get("/conversations/:conversation_id", h.getConversation)
	api.Get("/conversations/:conversation_id/messages", h.listMessages)

	return app
}

// senderKey buckets the send rate limit per sender. A request whose body
// does not carry a usable sender falls back to the client address; the
// handler rejects it anyway.
func senderKey(c *fiber.Ctx) string {
	var req struct {
		SenderID int64 `json:"sender_id"`
	}
	if err := c.BodyParser(&req); err == nil && req.SenderID > 0 {
		return strconv.FormatInt(req.SenderID, 10)
	}
	return c.IP()
}
