package handler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/middleware"
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WSHandler struct {
	hub       *service.Dispatcher
	chat      *service.ChatService
	jwtSecret string
}

func NewWSHandler(hub *service.Dispatcher, chat *service.ChatService, jwtSecret string) *WSHandler {
	return &WSHandler{hub: hub, chat: chat, jwtSecret: jwtSecret}
}

// Upgrade authenticates the same identity the HTTP surface uses, then
// hands the connection to the event loop. The connection is registered
// under the user's presence group for as long as it lives.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return c.Status(401).JSON(fiber.Map{"error": "token required"})
	}

	userID, username, err := middleware.ValidateToken(h.jwtSecret, token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "invalid token"})
	}

	c.Locals("user_id", userID)
	c.Locals("username", username)
	return websocket.New(h.handleConnection)(c)
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	userID, _ := c.Locals("user_id").(string)
	username, _ := c.Locals("username").(string)

	client := &service.Client{
		Conn:     c,
		UserID:   userID,
		Username: username,
		Send:     make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	// Writer goroutine
	go func() {
		defer c.Close()
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	// Reader loop
	c.SetReadDeadline(time.Now().Add(60 * time.Second))
	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}

		// Reset deadline on any message
		c.SetReadDeadline(time.Now().Add(60 * time.Second))

		var event model.WSEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}

		switch event.Type {
		case model.FramePing:
			pong, _ := json.Marshal(model.WSEvent{Type: model.FramePong})
			select {
			case client.Send <- pong:
			default:
			}

		case model.FrameJoinSession:
			var ref model.WSSessionRef
			if err := json.Unmarshal(event.Data, &ref); err != nil || ref.SessionID == "" {
				continue
			}
			h.joinSession(client, ref.SessionID)

		case model.FrameLeaveSession:
			var ref model.WSSessionRef
			if err := json.Unmarshal(event.Data, &ref); err != nil || ref.SessionID == "" {
				continue
			}
			h.hub.LeaveSession(client, ref.SessionID)

		default:
			log.Printf("[WS] unknown frame type %q from %s", event.Type, username)
		}
	}
}

// joinSession runs the participant check before the connection may enter
// the session's fan-out group. Non-participants are silently refused; the
// durable surface already returns forbidden for them.
func (h *WSHandler) joinSession(client *service.Client, sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, err := h.chat.IsParticipant(ctx, sessionID, client.UserID)
	if err != nil || !ok {
		log.Printf("[WS] %s refused join to session %s", client.Username, sessionID)
		return
	}
	h.hub.JoinSession(client, sessionID)
}
