package server

import (
	"log/slog"

	"abusebin/internal/middleware"
	"abusebin/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RelayWebSocket upgrades the connection and attaches it to the relay hub.
// Every frame a peer sends is rebroadcast verbatim to all connected peers,
// including the sender.
func (s *Server) RelayWebSocket() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(string)
		if userID == "" {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("relay connection rejected",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		s.hub.EmitTo(client, notifications.EventConnected, fiber.Map{"user_id": userID})
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}
