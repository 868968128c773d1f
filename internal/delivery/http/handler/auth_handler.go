package handler

import (
	"errors"
	"strings"
	"time"

	"gig-market/internal/delivery/http/dto"
	"gig-market/internal/delivery/http/middleware"
	"gig-market/internal/pkg/response"
	"gig-market/internal/usecase"
	ucauth "gig-market/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

// CookieConfig names the session cookies and their lifetimes.
type CookieConfig struct {
	AccessName  string
	RefreshName string
	Secure      bool
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
}

type AuthHandler struct {
	uc      usecase.AuthUsecase
	cookies CookieConfig
}

func NewAuthHandler(uc usecase.AuthUsecase, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{uc: uc, cookies: cookies}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)
	r.Get("/verify", h.Verify)
}

func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req dto.SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	usr, sess, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	h.setCookies(c, sess)
	return response.Created(c, dto.SessionResponse{User: usr, AccessToken: sess.AccessToken, RefreshToken: sess.RefreshToken})
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	usr, sess, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, usecase.ErrUnauthorized) {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
		}
		return mapUsecaseError(err)
	}

	h.setCookies(c, sess)
	return ok(c, dto.SessionResponse{User: usr, AccessToken: sess.AccessToken, RefreshToken: sess.RefreshToken})
}

// Refresh accepts the refresh token from its cookie, the Authorization
// header or the body, in that order.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok := strings.TrimSpace(c.Cookies(h.cookies.RefreshName))
	if tok == "" {
		tok, _ = middleware.BearerToken(c.Get("Authorization"))
	}
	if tok == "" && len(c.Body()) > 0 {
		var req dto.RefreshRequest
		if err := c.Bind().Body(&req); err == nil {
			tok = strings.TrimSpace(req.RefreshToken)
		}
	}
	if tok == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	sess, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		if errors.Is(err, usecase.ErrRefreshTokenExpired) {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
		}
		if errors.Is(err, usecase.ErrInvalidRefreshToken) {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
		}
		return mapUsecaseError(err)
	}

	h.setCookies(c, sess)
	return ok(c, dto.SessionResponse{AccessToken: sess.AccessToken, RefreshToken: sess.RefreshToken})
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	c.ClearCookie(h.cookies.AccessName, h.cookies.RefreshName)
	return ok(c, nil)
}

func (h *AuthHandler) Verify(c fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "token is required", nil, nil)
	}
	usr, err := h.uc.Verify(c.Context(), token)
	if err != nil {
		return mapUsecaseError(err)
	}
	return ok(c, usr)
}

func (h *AuthHandler) setCookies(c fiber.Ctx, sess usecase.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookies.AccessName,
		Value:    sess.AccessToken,
		Path:     "/",
		MaxAge:   int(h.cookies.AccessTTL.Seconds()),
		Secure:   h.cookies.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     h.cookies.RefreshName,
		Value:    sess.RefreshToken,
		Path:     "/api/auth",
		MaxAge:   int(h.cookies.RefreshTTL.Seconds()),
		Secure:   h.cookies.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
