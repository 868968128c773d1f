package handler

import (
	"strings"

	"gig-market/internal/delivery/http/dto"
	"gig-market/internal/domain/request"
	"gig-market/internal/pkg/response"
	"gig-market/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RequestHandler struct {
	uc usecase.RequestUsecase
}

func NewRequestHandler(uc usecase.RequestUsecase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

func (h *RequestHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("", h.Create)
	r.Get("", h.Get)
	r.Patch("", h.Update)
	r.Delete("", h.Delete)
}

func (h *RequestHandler) Create(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateRequestRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rq, err := h.uc.Create(c.Context(), a, usecase.RequestInput{
		JobID:     req.JobID,
		BidAmount: req.BidAmount,
		Message:   req.Message,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, rq)
}

// Get serves ?id= or a list filtered by sender_id, receiver_id, job_id and
// status.
func (h *RequestHandler) Get(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	if id, found, err := queryID(c, "id"); err != nil {
		return err
	} else if found {
		rq, err := h.uc.Get(c.Context(), a, id)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, rq)
	}

	pg, err := pageParams(c)
	if err != nil {
		return err
	}
	f := request.Filter{
		Status: strings.TrimSpace(c.Query("status")),
		Limit:  pg.Limit,
		Offset: pg.Offset,
	}
	if f.SenderID, err = optionalID(c, "sender_id"); err != nil {
		return err
	}
	if f.ReceiverID, err = optionalID(c, "receiver_id"); err != nil {
		return err
	}
	if f.JobID, err = optionalID(c, "job_id"); err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), a, f)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.List(c, items, pg.Limit, pg.Offset, nil)
}

func (h *RequestHandler) Update(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := requireID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateRequestRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rq, err := h.uc.Update(c.Context(), a, id, request.Update{
		Status:    req.Status,
		BidAmount: req.BidAmount,
		Message:   req.Message,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return ok(c, rq)
}

func (h *RequestHandler) Delete(c fiber.Ctx) error {
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
