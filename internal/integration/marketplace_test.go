package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"gig-market/internal/app"
	"gig-market/internal/config"
	"gig-market/internal/database"
	"gig-market/internal/database/migration"
	dbpostgres "gig-market/internal/database/postgres"
	"gig-market/internal/database/seeder"
	"gig-market/internal/repository"
	"gig-market/migrations"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type session struct {
	AccessToken string `json:"access_token"`
}

type idOnly struct {
	ID int64 `json:"id"`
}

func TestIntegration_HireAndRateWorkflow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() {
		_ = db.Close()
	}()
	runMigrations(t, ctx, db)

	cfg := testConfig()
	adminEmail := "admin-" + uuid.NewString()[:8] + "@example.com"
	require.NoError(t, seeder.Runner{Seeders: []seeder.Seeder{
		seeder.AdminSeeder{Email: adminEmail, Password: "admin-password"},
	}}.Run(ctx, db))

	server := app.New(&app.Container{
		Config: cfg,
		Logger: log.New(io.Discard, "", 0),
		DB:     db,
		Store:  repository.NewPostgresStore(db),
	})

	suffix := uuid.NewString()[:8]
	providerTok := signup(t, server, "provider-"+suffix+"@example.com", "provider")
	workerTok := signup(t, server, "worker-"+suffix+"@example.com", "user")

	var providerProfile, workerProfile idOnly
	call(t, server, providerTok, http.MethodPost, "/api/profile", `{"description":"cafe owner"}`, http.StatusCreated, &providerProfile)
	call(t, server, workerTok, http.MethodPost, "/api/profile", `{"description":"barista"}`, http.StatusCreated, &workerProfile)

	var j idOnly
	call(t, server, providerTok, http.MethodPost, "/api/job", `{"title":"Weekend barista","num_workers":1,"pay_rate":15}`, http.StatusCreated, &j)

	var rq struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	call(t, server, workerTok, http.MethodPost, "/api/request", fmt.Sprintf(`{"job_id":%d,"bid_amount":14}`, j.ID), http.StatusCreated, &rq)
	require.Equal(t, "pending", rq.Status)

	call(t, server, providerTok, http.MethodPatch, fmt.Sprintf("/api/request?id=%d", rq.ID), `{"status":"accepted"}`, http.StatusOK, &rq)
	require.Equal(t, "accepted", rq.Status)

	var jobState struct {
		State string `json:"state"`
	}
	call(t, server, workerTok, http.MethodGet, fmt.Sprintf("/api/job?id=%d", j.ID), "", http.StatusOK, &jobState)
	require.Equal(t, "in_progress", jobState.State)

	call(t, server, workerTok, http.MethodPatch, fmt.Sprintf("/api/request?id=%d", rq.ID), `{"status":"cancelled"}`, http.StatusOK, &rq)
	require.Equal(t, "cancelled", rq.Status)
	call(t, server, workerTok, http.MethodGet, fmt.Sprintf("/api/job?id=%d", j.ID), "", http.StatusOK, &jobState)
	require.Equal(t, "open", jobState.State)

	call(t, server, workerTok, http.MethodPost, "/api/request", fmt.Sprintf(`{"job_id":%d,"bid_amount":15}`, j.ID), http.StatusCreated, &rq)
	call(t, server, providerTok, http.MethodPatch, fmt.Sprintf("/api/request?id=%d", rq.ID), `{"status":"accepted"}`, http.StatusOK, &rq)
	require.Equal(t, "accepted", rq.Status)
	call(t, server, workerTok, http.MethodGet, fmt.Sprintf("/api/job?id=%d", j.ID), "", http.StatusOK, &jobState)
	require.Equal(t, "in_progress", jobState.State)

	call(t, server, providerTok, http.MethodPost, "/api/rating",
		fmt.Sprintf(`{"subject_id":%d,"job_id":%d,"value":5,"feedback":"great"}`, workerProfile.ID, j.ID), http.StatusCreated, nil)
	call(t, server, providerTok, http.MethodPost, "/api/rating",
		fmt.Sprintf(`{"subject_id":%d,"job_id":%d,"value":4}`, workerProfile.ID, j.ID), http.StatusConflict, nil)

	var worker struct {
		AverageRating float64 `json:"average_rating"`
	}
	call(t, server, workerTok, http.MethodGet, fmt.Sprintf("/api/profile?id=%d", workerProfile.ID), "", http.StatusOK, &worker)
	require.Equal(t, 5.0, worker.AverageRating)

	call(t, server, workerTok, http.MethodGet, "/api/admin/stats", "", http.StatusUnauthorized, nil)

	var login session
	call(t, server, "", http.MethodPost, "/api/auth/login",
		fmt.Sprintf(`{"email":%q,"password":"admin-password"}`, adminEmail), http.StatusOK, &login)
	call(t, server, login.AccessToken, http.MethodGet, "/api/admin/stats", "", http.StatusOK, nil)
}

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{AppName: "gig-market", Environment: "test", HTTPPort: "0"},
		JWT: config.JWTConfig{
			AccessSecret:      stringsOrDefault(os.Getenv("GIGMARKET_TEST_JWT_ACCESS_SECRET"), "test-access-secret"),
			RefreshSecret:     stringsOrDefault(os.Getenv("GIGMARKET_TEST_JWT_REFRESH_SECRET"), "test-refresh-secret"),
			AccessExpiresIn:   15 * time.Minute,
			RefreshExpiresIn:  24 * time.Hour,
			CookieName:        config.DefaultCookieName,
			RefreshCookieName: "refresh_token",
		},
		Redis:     config.RedisConfig{StatsTTL: time.Minute},
		Inference: config.InferenceConfig{ToxicityThreshold: 0.8},
	}
}

func signup(t *testing.T, a *app.App, email, role string) string {
	t.Helper()
	var s session
	call(t, a, "", http.MethodPost, "/api/auth/signup",
		fmt.Sprintf(`{"email":%q,"password":"password123","role":%q}`, email, role), http.StatusCreated, &s)
	require.NotEmpty(t, s.AccessToken)
	return s.AccessToken
}

func call(t *testing.T, a *app.App, token, method, target, body string, wantStatus int, out any) {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.Fiber.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equalf(t, wantStatus, resp.StatusCode, "%s %s: %s", method, target, strings.TrimSpace(string(raw)))

	if out == nil {
		return
	}
	var env semanticResponse
	require.NoError(t, json.Unmarshal(raw, &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("GIGMARKET_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("GIGMARKET_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("GIGMARKET_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("GIGMARKET_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("GIGMARKET_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("GIGMARKET_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set GIGMARKET_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  ssl,
	})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()

	r := migration.Runner{FS: migrations.FS}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
}

func stringsOrDefault(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}
