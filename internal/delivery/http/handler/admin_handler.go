package handler

import (
	"strings"

	"gig-market/internal/delivery/http/dto"
	"gig-market/internal/domain/job"
	"gig-market/internal/domain/user"
	"gig-market/internal/pkg/response"
	"gig-market/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AdminHandler struct {
	uc usecase.AdminUsecase
}

func NewAdminHandler(uc usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// RegisterRoutes expects r to be guarded by RequireRole(admin).
func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/stats", h.Stats)
	r.Get("/jobs", h.Jobs)
	r.Get("/users", h.Users)
	r.Patch("/users", h.ChangeRole)
	r.Delete("/users", h.DeleteUser)
}

func (h *AdminHandler) Stats(c fiber.Ctx) error {
	st, cached, err := h.uc.Stats(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return ok(c, dto.StatsResponse{Stats: st, Cached: cached})
}

func (h *AdminHandler) Jobs(c fiber.Ctx) error {
	pg, err := pageParams(c)
	if err != nil {
		return err
	}
	sortBy, desc, err := sortParams(c, "created_at", "pay_rate")
	if err != nil {
		return err
	}

	rows, total, err := h.uc.Jobs(c.Context(), job.Filter{
		Category: strings.TrimSpace(c.Query("category")),
		State:    strings.TrimSpace(c.Query("state")),
		Search:   strings.TrimSpace(c.Query("search")),
		SortBy:   sortBy,
		Desc:     desc,
		Limit:    pg.Limit,
		Offset:   pg.Offset,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.List(c, rows, pg.Limit, pg.Offset, &total)
}

func (h *AdminHandler) Users(c fiber.Ctx) error {
	pg, err := pageParams(c)
	if err != nil {
		return err
	}
	sortBy, desc, err := sortParams(c, "created_at", "email")
	if err != nil {
		return err
	}

	rows, total, err := h.uc.Users(c.Context(), user.Filter{
		Role:   strings.TrimSpace(c.Query("role")),
		Search: strings.TrimSpace(c.Query("search")),
		SortBy: sortBy,
		Desc:   desc,
		Limit:  pg.Limit,
		Offset: pg.Offset,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.List(c, rows, pg.Limit, pg.Offset, &total)
}

func (h *AdminHandler) ChangeRole(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := requireID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ChangeRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	usr, err := h.uc.ChangeRole(c.Context(), a, id, req.Role)
	if err != nil {
		return mapUsecaseError(err)
	}
	return ok(c, usr)
}

func (h *AdminHandler) DeleteUser(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := requireID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteUser(c.Context(), a, id); err != nil {
		return mapUsecaseError(err)
	}
	return deleted(c)
}
