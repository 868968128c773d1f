package handler

import (
	"gig-market/internal/delivery/http/dto"
	"gig-market/internal/domain/profile"
	"gig-market/internal/pkg/response"
	"gig-market/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("", h.Create)
	r.Get("", h.Get)
	r.Patch("", h.Update)
	r.Delete("", h.Delete)
}

func (h *ProfileHandler) Create(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := h.uc.Create(c.Context(), a, usecase.ProfileInput{
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, p)
}

// Get serves ?id=, ?user_id= or a paginated list.
func (h *ProfileHandler) Get(c fiber.Ctx) error {
	if id, found, err := queryID(c, "id"); err != nil {
		return err
	} else if found {
		p, err := h.uc.Get(c.Context(), id)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, p)
	}

	if userID, found, err := queryID(c, "user_id"); err != nil {
		return err
	} else if found {
		p, err := h.uc.GetByUser(c.Context(), userID)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, p)
	}

	pg, err := pageParams(c)
	if err != nil {
		return err
	}
	items, err := h.uc.List(c.Context(), pg)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.List(c, items, pg.Limit, pg.Offset, nil)
}

func (h *ProfileHandler) Update(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := requireID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := h.uc.Update(c.Context(), a, id, profile.Update{
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return ok(c, p)
}

func (h *ProfileHandler) Delete(c fiber.Ctx) error {
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
