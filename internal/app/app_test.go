package app

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"gig-market/internal/config"
	"gig-market/internal/domain/stats"
	"gig-market/internal/domain/user"
	"gig-market/internal/pkg/jwt"
	"gig-market/internal/repository"
	"gig-market/internal/repository/repotest"

	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{AppName: "gig-market-test", Environment: "test", HTTPPort: "0"},
		JWT: config.JWTConfig{
			AccessSecret:      "access-secret",
			RefreshSecret:     "refresh-secret",
			AccessExpiresIn:   time.Minute,
			RefreshExpiresIn:  time.Hour,
			CookieName:        "auth_token",
			RefreshCookieName: "refresh_token",
		},
		Redis:     config.RedisConfig{StatsTTL: time.Minute},
		Inference: config.InferenceConfig{ToxicityThreshold: 0.8},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	c := &Container{
		Config: testConfig(),
		Logger: log.New(io.Discard, "", 0),
		Store:  repotest.New(),
	}
	return New(c)
}

func do(t *testing.T, a *App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := a.Fiber.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(body) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(body, &env))
	}
	return resp, env
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func tokenFor(t *testing.T, id int64, role string) string {
	t.Helper()
	cfg := testConfig().JWT
	svc := jwt.NewHMACService(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessExpiresIn, cfg.RefreshExpiresIn)
	tok, err := svc.GenerateAccessToken(jwt.Identity{UserID: id, Email: "x@example.com", Role: role})
	require.NoError(t, err)
	return tok
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	resp, env := do(t, a, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, http.StatusOK, env.Status)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestSignupSetsCookiesAndServesMe(t *testing.T) {
	a := newTestApp(t)

	resp, env := do(t, a, jsonRequest(http.MethodPost, "/api/auth/signup",
		`{"email":"Alice@Example.com","password":"password123","first_name":"Alice","role":"provider"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "created", env.Message)

	var access *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "auth_token" {
			access = ck
		}
	}
	require.NotNil(t, access)
	require.True(t, access.HttpOnly)
	require.NotEmpty(t, access.Value)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: access.Value})
	resp, env = do(t, a, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(env.Data), "alice@example.com")
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	a := newTestApp(t)
	body := `{"email":"bob@example.com","password":"password123"}`

	resp, _ := do(t, a, jsonRequest(http.MethodPost, "/api/auth/signup", body))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := do(t, a, jsonRequest(http.MethodPost, "/api/auth/signup", body))
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, http.StatusConflict, env.Status)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	a := newTestApp(t)
	resp, _ := do(t, a, jsonRequest(http.MethodPost, "/api/auth/signup", `{"email":"carol@example.com","password":"password123"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := do(t, a, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"carol@example.com","password":"nope-nope"}`))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid email or password", env.Message)
}

func TestSignupValidationFailure(t *testing.T) {
	a := newTestApp(t)
	resp, env := do(t, a, jsonRequest(http.MethodPost, "/api/auth/signup", `{"email":"not-an-email","password":"short"}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Validation failed", env.Message)
	require.Contains(t, string(env.Data), `"field":"email"`)
	require.Contains(t, string(env.Data), `"field":"password"`)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	a := newTestApp(t)
	resp, _ := do(t, a, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEmptyPatchIsRejected(t *testing.T) {
	a := newTestApp(t)
	req := jsonRequest(http.MethodPatch, "/api/auth/me", `{}`)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 1, user.RoleUser))
	resp, env := do(t, a, req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "No updatable fields supplied", env.Message)
}

func TestMissingProfileIsNotFound(t *testing.T) {
	a := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/api/profile?id=999", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 1, user.RoleUser))
	resp, env := do(t, a, req)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, http.StatusNotFound, env.Status)
}

// countingStore counts every stats query issued through it.
type countingStore struct {
	repository.Store
	calls atomic.Int64
}

func (s *countingStore) Stats() repository.StatsRepository {
	return countingStats{inner: s.Store.Stats(), calls: &s.calls}
}

type countingStats struct {
	inner repository.StatsRepository
	calls *atomic.Int64
}

func (c countingStats) Totals(ctx context.Context) (stats.Totals, error) {
	c.calls.Add(1)
	return c.inner.Totals(ctx)
}

func (c countingStats) UsersCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	c.calls.Add(1)
	return c.inner.UsersCreatedBetween(ctx, from, to)
}

func (c countingStats) JobsCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	c.calls.Add(1)
	return c.inner.JobsCreatedBetween(ctx, from, to)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	store := &countingStore{Store: repotest.New()}
	a := New(&Container{
		Config: testConfig(),
		Logger: log.New(io.Discard, "", 0),
		Store:  store,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 1, user.RoleUser))
	resp, _ := do(t, a, req)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Zero(t, store.calls.Load())

	req = httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 2, user.RoleAdmin))
	resp, env := do(t, a, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, http.StatusOK, env.Status)
	require.Positive(t, store.calls.Load())
}

func TestUploadWithoutStorageHidesCause(t *testing.T) {
	a := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/api/upload?kind=profile_image&content_type=image/png", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 1, user.RoleUser))
	resp, env := do(t, a, req)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "internal server error", env.Message)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t)
	_, _ = do(t, a, httptest.NewRequest(http.MethodGet, "/health", nil))

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "http_requests_total")
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("8080")
	require.NoError(t, err)
	require.Equal(t, ":8080", addr)

	addr, err = ListenAddr(":9090")
	require.NoError(t, err)
	require.Equal(t, ":9090", addr)

	_, err = ListenAddr(" ")
	require.Error(t, err)
}
