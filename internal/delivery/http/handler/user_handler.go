package handler

import (
	"gig-market/internal/delivery/http/dto"
	"gig-market/internal/delivery/http/middleware"
	"gig-market/internal/usecase"
	useruc "gig-market/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("", h.GetMe)
	r.Patch("", h.UpdateMe)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	me, err := h.uc.GetMe(c.Context(), a.UserID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return ok(c, me)
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	var req dto.UpdateMeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.FirstName == nil && req.LastName == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "No updatable fields supplied", nil, nil)
	}

	me, err := h.uc.UpdateMe(c.Context(), a.UserID, useruc.UpdateMeInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return ok(c, me)
}
