package ws

import (
	"context"
	"errors"
	"log"
	"net/http"

	"gig-market/internal/delivery/http/middleware"
	"gig-market/internal/domain/chat"
	"gig-market/internal/domain/profile"
	"gig-market/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

type ChatAccess interface {
	Get(ctx context.Context, a usecase.Actor, chatID int64) (chat.Chat, error)
}

type ProfileLookup interface {
	GetByUser(ctx context.Context, userID int64) (profile.Profile, error)
}

type Handler struct {
	hub      *Hub
	chats    ChatAccess
	profiles ProfileLookup
	logger   *log.Logger
}

func NewHandler(hub *Hub, chats ChatAccess, profiles ProfileLookup, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{hub: hub, chats: chats, profiles: profiles, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handle subscribes the caller to their profile room and, with ?chat_id=,
// to that chat's room once participation is confirmed.
func (h *Handler) Handle(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}
	userID, role, ok := middleware.Identity(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	rooms, err := h.rooms(c, usecase.Actor{UserID: userID, Role: role})
	if err != nil {
		return err
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Printf("WS upgrade error | error=%v", err)
			return
		}

		client := NewClient(h.hub, conn)
		h.hub.Register(client, rooms...)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}

func (h *Handler) rooms(c fiber.Ctx, a usecase.Actor) ([]string, error) {
	var rooms []string

	p, err := h.profiles.GetByUser(c.Context(), a.UserID)
	switch {
	case err == nil:
		rooms = append(rooms, usecase.ProfileRoom(p.ID))
	case !errors.Is(err, usecase.ErrNotFound):
		return nil, middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	chatID := fiber.Query[int64](c, "chat_id")
	if chatID > 0 {
		if _, err := h.chats.Get(c.Context(), a, chatID); err != nil {
			switch {
			case errors.Is(err, usecase.ErrNotFound):
				return nil, middleware.NewAppError(fiber.StatusNotFound, "chat not found", nil, err)
			case errors.Is(err, usecase.ErrForbidden), errors.Is(err, usecase.ErrInvalidInput):
				return nil, middleware.NewAppError(fiber.StatusForbidden, "caller is not part of this chat", nil, err)
			}
			return nil, middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
		rooms = append(rooms, usecase.ChatRoom(chatID))
	}

	if len(rooms) == 0 {
		return nil, middleware.NewAppError(fiber.StatusBadRequest, "nothing to subscribe to", nil, nil)
	}
	return rooms, nil
}
