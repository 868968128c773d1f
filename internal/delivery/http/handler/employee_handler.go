package handler

import (
	"gig-market/internal/delivery/http/dto"
	"gig-market/internal/domain/employee"
	"gig-market/internal/pkg/response"
	"gig-market/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type EmployeeHandler struct {
	uc usecase.EmployeeUsecase
}

func NewEmployeeHandler(uc usecase.EmployeeUsecase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc}
}

func (h *EmployeeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("", h.Create)
	r.Get("", h.Get)
	r.Patch("", h.Update)
	r.Delete("", h.Delete)
}

func (h *EmployeeHandler) Create(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateEmployeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	e, err := h.uc.Create(c.Context(), a, usecase.EmployeeInput{
		ProfileID: req.ProfileID,
		JobID:     req.JobID,
		Status:    req.Status,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, e)
}

func (h *EmployeeHandler) Get(c fiber.Ctx) error {
	if id, found, err := queryID(c, "id"); err != nil {
		return err
	} else if found {
		e, err := h.uc.Get(c.Context(), id)
		if err != nil {
			return mapUsecaseError(err)
		}
		return ok(c, e)
	}

	pg, err := pageParams(c)
	if err != nil {
		return err
	}
	f := employee.Filter{Limit: pg.Limit, Offset: pg.Offset}
	if f.ProfileID, err = optionalID(c, "profile_id"); err != nil {
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

func (h *EmployeeHandler) Update(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := requireID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateEmployeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	e, err := h.uc.Update(c.Context(), a, id, employee.Update{Status: req.Status})
	if err != nil {
		return mapUsecaseError(err)
	}
	return ok(c, e)
}

func (h *EmployeeHandler) Delete(c fiber.Ctx) error {
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
