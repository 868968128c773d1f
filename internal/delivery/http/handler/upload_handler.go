package handler

import (
	"gig-market/internal/delivery/http/middleware"
	"gig-market/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UploadHandler struct {
	uc usecase.UploadUsecase
}

func NewUploadHandler(uc usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

func (h *UploadHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("", h.Presign)
}

// Presign answers ?kind=profile_image|attachment&content_type= with a
// presigned PUT URL.
func (h *UploadHandler) Presign(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	kind := c.Query("kind")
	if kind == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "kind is required", nil, nil)
	}
	contentType := c.Query("content_type", "image/jpeg")

	up, err := h.uc.Presign(c.Context(), a, kind, contentType)
	if err != nil {
		return mapUsecaseError(err)
	}
	return ok(c, up)
}
