package handler

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"gig-market/internal/delivery/http/middleware"
	"gig-market/internal/pkg/response"
	"gig-market/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// bind decodes the JSON body into dst and runs its validate tags.
func bind(c fiber.Ctx, dst any) error {
	if err := c.Bind().Body(dst); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]fieldError, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, fieldError{Field: fe.Field(), Rule: fe.Tag()})
			}
			return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", details, err)
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return nil
}

func actor(c fiber.Ctx) (usecase.Actor, error) {
	id, role, ok := middleware.Identity(c)
	if !ok {
		return usecase.Actor{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return usecase.Actor{UserID: id, Role: role}, nil
}

// queryID parses an optional positive integer query parameter.
func queryID(c fiber.Ctx, key string) (int64, bool, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, false, middleware.NewAppError(fiber.StatusBadRequest, key+" must be a positive integer", nil, err)
	}
	return v, true, nil
}

func requireID(c fiber.Ctx, key string) (int64, error) {
	v, ok, err := queryID(c, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, key+" is required", nil, nil)
	}
	return v, nil
}

func optionalID(c fiber.Ctx, key string) (*int64, error) {
	v, ok, err := queryID(c, key)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, key+" must be an integer", nil, err)
	}
	return v, nil
}

func pageParams(c fiber.Ctx) (usecase.Page, error) {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return usecase.Page{}, err
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return usecase.Page{}, err
	}
	p, err := usecase.NewPage(limit, offset)
	if err != nil {
		return usecase.Page{}, mapUsecaseError(err)
	}
	return p, nil
}

// sortParams reads sort_by and order (asc or desc).
func sortParams(c fiber.Ctx, allowed ...string) (string, bool, error) {
	by := strings.TrimSpace(c.Query("sort_by"))
	if by != "" {
		ok := false
		for _, a := range allowed {
			if by == a {
				ok = true
				break
			}
		}
		if !ok {
			return "", false, middleware.NewAppError(fiber.StatusBadRequest, "sort_by must be one of "+strings.Join(allowed, ", "), nil, nil)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Query("order"))) {
	case "", "asc":
		return by, false, nil
	case "desc":
		return by, true, nil
	}
	return "", false, middleware.NewAppError(fiber.StatusBadRequest, "order must be asc or desc", nil, nil)
}

func ok(c fiber.Ctx, data any) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func deleted(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageDeleted, nil)
}

// mapUsecaseError turns usecase sentinels into HTTP errors. The wrapped
// detail is shown for client errors only.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *middleware.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, detail(err, usecase.ErrInvalidInput), nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, detail(err, usecase.ErrUnauthorized), nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, detail(err, usecase.ErrForbidden), nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, detail(err, usecase.ErrNotFound), nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, detail(err, usecase.ErrConflict), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// detail strips the sentinel prefix from a wrapped usecase error.
func detail(err, sentinel error) string {
	msg := err.Error()
	if rest, found := strings.CutPrefix(msg, sentinel.Error()+": "); found {
		return rest
	}
	return msg
}
