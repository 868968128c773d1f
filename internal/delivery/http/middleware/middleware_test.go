package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gig-market/internal/pkg/jwt"
	"gig-market/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *jwt.HMACService) {
	t.Helper()
	svc := jwt.NewHMACService("access", "refresh", time.Minute, time.Hour)
	app := fiber.New()
	app.Use(NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())

	auth := NewAuthMiddleware(svc, "auth_token")
	app.Get("/whoami", auth.Middleware(), func(c fiber.Ctx) error {
		id, role, ok := Identity(c)
		require.True(t, ok)
		return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"id": id, "role": role})
	})
	app.Get("/admin", auth.Middleware(), RequireRole("admin"), func(c fiber.Ctx) error {
		return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
	})
	app.Get("/boom", func(c fiber.Ctx) error {
		return errors.New("db password leaked")
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("unexpected")
	})
	app.Get("/conflict", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusConflict, "", nil, nil)
	})
	return app, svc
}

func decode(t *testing.T, res *http.Response) response.SemanticResponse {
	t.Helper()
	defer res.Body.Close()
	var body response.SemanticResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestErrorMiddleware_HidesInternalErrors(t *testing.T) {
	app, _ := newTestApp(t)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, res.StatusCode)
	body := decode(t, res)
	require.Equal(t, response.MessageInternalServerError, body.Message)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, res.StatusCode)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/conflict", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, res.StatusCode)
	require.Equal(t, response.MessageConflict, decode(t, res).Message)
}

func TestAuthMiddleware_CookieAndBearer(t *testing.T) {
	app, svc := newTestApp(t)
	access, err := svc.GenerateAccessToken(jwt.Identity{UserID: 7, Email: "a@example.com", Role: "provider"})
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(jwt.Identity{UserID: 7})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: access})
	res, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	data := decode(t, res).Data.(map[string]any)
	require.Equal(t, float64(7), data["id"])
	require.Equal(t, "provider", data["role"])

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	res, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	res, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestRequireRole(t *testing.T) {
	app, svc := newTestApp(t)

	for role, want := range map[string]int{"user": fiber.StatusUnauthorized, "admin": fiber.StatusOK} {
		tok, err := svc.GenerateAccessToken(jwt.Identity{UserID: 1, Role: role})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		res, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, want, res.StatusCode, role)
	}
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("bearer abc")
	require.True(t, ok)
	require.Equal(t, "abc", tok)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer   "} {
		_, ok := BearerToken(h)
		require.False(t, ok, h)
	}
}

func TestAccessLogAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetricsMiddleware(reg)

	app := fiber.New()
	app.Use(NewAccessLogMiddleware(log.New(io.Discard, "", 0)).Middleware())
	app.Use(metrics.Middleware())
	app.Use(NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	app.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("pong")
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	require.NotEmpty(t, res.Header.Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	res, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "rid-1", res.Header.Get("X-Request-ID"))

	require.Equal(t, 1, testutil.CollectAndCount(metrics.requests))
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.requests))
}
