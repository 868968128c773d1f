package handler

import (
	"gig-market/internal/delivery/http/dto"
	"gig-market/internal/domain/notification"
	"gig-market/internal/pkg/response"
	"gig-market/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type NotificationHandler struct {
	uc usecase.NotificationUsecase
}

func NewNotificationHandler(uc usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("", h.Create)
	r.Get("", h.Get)
	r.Patch("", h.Update)
	r.Delete("", h.Delete)
}

func (h *NotificationHandler) Create(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateNotificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	n, err := h.uc.Create(c.Context(), a, usecase.NotificationInput{
		ReceiverID: req.ReceiverID,
		Type:       req.Type,
		Message:    req.Message,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, n)
}

// Get serves ?id=, ?type=unread_count or the inbox of receiver_id
// (the caller's by default). unread=true keeps unread entries only.
func (h *NotificationHandler) Get(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	if c.Query("type") == "unread_count" {
		receiverID, _, err := queryID(c, "receiver_id")
		if err != nil {
			return err
		}
		n, err := h.uc.UnreadCount(c.Context(), a, receiverID)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, map[string]int{"unread_count": n})
	}

	if id, found, err := queryID(c, "id"); err != nil {
		return err
	} else if found {
		n, err := h.uc.Get(c.Context(), a, id)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, n)
	}

	pg, err := pageParams(c)
	if err != nil {
		return err
	}
	f := notification.Filter{
		UnreadOnly: c.Query("unread") == "true",
		Limit:      pg.Limit,
		Offset:     pg.Offset,
	}
	if f.ReceiverID, err = optionalID(c, "receiver_id"); err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), a, f)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.List(c, items, pg.Limit, pg.Offset, nil)
}

// Update marks one notification (?id=) or, with ?type=read_all, the whole
// inbox of the caller.
func (h *NotificationHandler) Update(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	if c.Query("type") == "read_all" {
		n, err := h.uc.MarkAllRead(c.Context(), a)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, map[string]int64{"updated": n})
	}

	id, err := requireID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateNotificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	n, err := h.uc.Update(c.Context(), a, id, notification.Update{IsRead: req.IsRead})
	if err != nil {
		return mapUsecaseError(err)
	}
	return ok(c, n)
}

func (h *NotificationHandler) Delete(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := requireID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Context(), a, id); err != nil {
		return mapUsecaseError(err)
	}
	return deleted(c)
}
