package handler

import (
	"strings"

	"gig-market/internal/delivery/http/dto"
	"gig-market/internal/delivery/http/middleware"
	"gig-market/internal/domain/job"
	"gig-market/internal/pkg/response"
	"gig-market/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	uc usecase.JobUsecase
}

func NewJobHandler(uc usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("", h.Create)
	r.Get("", h.Get)
	r.Patch("", h.Update)
	r.Delete("", h.Delete)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateJobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	j, err := h.uc.Create(c.Context(), a, usecase.JobInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PayRate:     req.PayRate,
		NumWorkers:  req.NumWorkers,
		Location:    req.Location,
		State:       req.State,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, j)
}

// Get serves ?id=, ?type=recommended&profile_id= or a filtered list.
func (h *JobHandler) Get(c fiber.Ctx) error {
	if id, found, err := queryID(c, "id"); err != nil {
		return err
	} else if found {
		j, err := h.uc.Get(c.Context(), id)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, j)
	}

	pg, err := pageParams(c)
	if err != nil {
		return err
	}

	if c.Query("type") == "recommended" {
		profileID, err := requireID(c, "profile_id")
		if err != nil {
			return err
		}
		items, err := h.uc.Recommended(c.Context(), profileID, pg)
		if err != nil {
			return mapUsecaseError(err)
		}
		return response.List(c, items, pg.Limit, pg.Offset, nil)
	}

	f, err := jobFilter(c, pg)
	if err != nil {
		return err
	}
	items, err := h.uc.List(c.Context(), f)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.List(c, items, pg.Limit, pg.Offset, nil)
}

func jobFilter(c fiber.Ctx, pg usecase.Page) (job.Filter, error) {
	profileID, err := optionalID(c, "profile_id")
	if err != nil {
		return job.Filter{}, err
	}
	state := strings.TrimSpace(c.Query("state"))
	if state != "" && !job.ValidState(state) {
		return job.Filter{}, middleware.NewAppError(fiber.StatusBadRequest, "unknown job state", nil, nil)
	}
	sortBy, desc, err := sortParams(c, "created_at", "pay_rate", "title")
	if err != nil {
		return job.Filter{}, err
	}
	return job.Filter{
		ProfileID: profileID,
		Category:  strings.TrimSpace(c.Query("category")),
		State:     state,
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    sortBy,
		Desc:      desc,
		Limit:     pg.Limit,
		Offset:    pg.Offset,
	}, nil
}

func (h *JobHandler) Update(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := requireID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateJobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	j, err := h.uc.Update(c.Context(), a, id, job.Update{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		State:       req.State,
		PayRate:     req.PayRate,
		NumWorkers:  req.NumWorkers,
		Location:    req.Location,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return ok(c, j)
}

func (h *JobHandler) Delete(c fiber.Ctx) error {
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
