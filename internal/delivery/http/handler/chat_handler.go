package handler

import (
	"gig-market/internal/delivery/http/dto"
	"gig-market/internal/delivery/http/middleware"
	"gig-market/internal/pkg/response"
	"gig-market/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ChatHandler struct {
	uc usecase.ChatUsecase
}

func NewChatHandler(uc usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("", h.Create)
	r.Get("", h.Get)
	r.Put("", h.Update)
	r.Delete("", h.Delete)
}

// Create opens a chat with profile_id, or sends a message with
// ?type=message.
func (h *ChatHandler) Create(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	if c.Query("type") == "message" {
		var req dto.SendMessageRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		m, err := h.uc.Send(c.Context(), a, usecase.SendInput{
			ChatID:        req.ChatID,
			ReceiverID:    req.ReceiverID,
			Content:       req.Content,
			AttachmentURL: req.AttachmentURL,
		})
		if err != nil {
			return mapUsecaseError(err)
		}
		return response.Created(c, m)
	}

	var req dto.OpenChatRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ch, created, err := h.uc.Open(c.Context(), a, req.ProfileID)
	if err != nil {
		return mapUsecaseError(err)
	}
	if created {
		return response.Created(c, dto.OpenChatResponse{Chat: ch, Created: true})
	}
	return ok(c, dto.OpenChatResponse{Chat: ch})
}

// Get serves ?type=messages&chat_id=, ?chat_id= or the chat list of
// profile_id (the caller's by default).
func (h *ChatHandler) Get(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	pg, err := pageParams(c)
	if err != nil {
		return err
	}

	if c.Query("type") == "messages" {
		chatID, err := requireID(c, "chat_id")
		if err != nil {
			return err
		}
		items, err := h.uc.Messages(c.Context(), a, chatID, pg)
		if err != nil {
			return mapUsecaseError(err)
		}
		return response.List(c, items, pg.Limit, pg.Offset, nil)
	}

	if chatID, found, err := queryID(c, "chat_id"); err != nil {
		return err
	} else if found {
		ch, err := h.uc.Get(c.Context(), a, chatID)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, ch)
	}

	profileID, _, err := queryID(c, "profile_id")
	if err != nil {
		return err
	}
	items, err := h.uc.List(c.Context(), a, profileID, pg)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.List(c, items, pg.Limit, pg.Offset, nil)
}

// Update edits a message (?type=message&id=), sets its reaction
// (?type=reaction&id=) or marks a chat read (?type=read&chat_id=).
func (h *ChatHandler) Update(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	switch c.Query("type") {
	case "message":
		id, err := requireID(c, "id")
		if err != nil {
			return err
		}
		var req dto.EditMessageRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		m, err := h.uc.Edit(c.Context(), a, id, req.Content)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, m)

	case "reaction":
		id, err := requireID(c, "id")
		if err != nil {
			return err
		}
		var req dto.ReactionRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		m, err := h.uc.React(c.Context(), a, id, req.Reaction)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, m)

	case "read":
		chatID, err := requireID(c, "chat_id")
		if err != nil {
			return err
		}
		n, err := h.uc.MarkRead(c.Context(), a, chatID)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, map[string]int64{"updated": n})
	}
	return middleware.NewAppError(fiber.StatusBadRequest, "type must be message, reaction or read", nil, nil)
}

// Delete removes a message (?type=message&id=) or a chat (?chat_id=).
func (h *ChatHandler) Delete(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	if c.Query("type") == "message" {
		id, err := requireID(c, "id")
		if err != nil {
			return err
		}
		if err := h.uc.DeleteMessage(c.Context(), a, id); err != nil {
			return mapUsecaseError(err)
		}
		return deleted(c)
	}

	chatID, err := requireID(c, "chat_id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteChat(c.Context(), a, chatID); err != nil {
		return mapUsecaseError(err)
	}
	return deleted(c)
}
