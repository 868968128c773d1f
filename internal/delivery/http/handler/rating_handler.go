package handler

import (
	"gig-market/internal/delivery/http/dto"
	"gig-market/internal/domain/rating"
	"gig-market/internal/pkg/response"
	"gig-market/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RatingHandler struct {
	uc usecase.RatingUsecase
}

func NewRatingHandler(uc usecase.RatingUsecase) *RatingHandler {
	return &RatingHandler{uc: uc}
}

func (h *RatingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("", h.Create)
	r.Get("", h.Get)
	r.Patch("", h.Update)
	r.Delete("", h.Delete)
}

func (h *RatingHandler) Create(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateRatingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rt, err := h.uc.Create(c.Context(), a, usecase.RatingInput{
		SubjectID: req.SubjectID,
		JobID:     req.JobID,
		Value:     req.Value,
		Feedback:  req.Feedback,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, rt)
}

// Get serves ?id=, ?type=badge&profile_id= or a list filtered by rater_id,
// subject_id and job_id.
func (h *RatingHandler) Get(c fiber.Ctx) error {
	if c.Query("type") == "badge" {
		profileID, err := requireID(c, "profile_id")
		if err != nil {
			return err
		}
		b, err := h.uc.Badge(c.Context(), profileID)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, b)
	}

	if id, found, err := queryID(c, "id"); err != nil {
		return err
	} else if found {
		rt, err := h.uc.Get(c.Context(), id)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, rt)
	}

	pg, err := pageParams(c)
	if err != nil {
		return err
	}
	f := rating.Filter{Limit: pg.Limit, Offset: pg.Offset}
	if f.RaterID, err = optionalID(c, "rater_id"); err != nil {
		return err
	}
	if f.SubjectID, err = optionalID(c, "subject_id"); err != nil {
		return err
	}
	if f.JobID, err = optionalID(c, "job_id"); err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), f)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.List(c, items, pg.Limit, pg.Offset, nil)
}

func (h *RatingHandler) Update(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := requireID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateRatingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rt, err := h.uc.Update(c.Context(), a, id, rating.Update{
		Value:    req.Value,
		Feedback: req.Feedback,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return ok(c, rt)
}

func (h *RatingHandler) Delete(c fiber.Ctx) error {
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
