package app

import (
	"fmt"
	"strings"

	"gig-market/internal/config"
	"gig-market/internal/delivery/http/handler"
	"gig-market/internal/delivery/http/middleware"
	"gig-market/internal/delivery/http/routes"
	"gig-market/internal/pkg/jwt"
	"gig-market/internal/usecase"
	"gig-market/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	Fiber *fiber.App
}

// New builds the HTTP application over an initialised container.
func New(c *Container) *App {
	cfg := c.Config
	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	registerGlobalMiddleware(f, c, reg)

	jwtSvc := jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiresIn, cfg.JWT.RefreshExpiresIn)
	authMw := middleware.NewAuthMiddleware(jwtSvc, cfg.JWT.CookieName)

	registry := routes.NewRegistry(newHandlers(c, jwtSvc), authMw, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	registry.Register(f)

	return &App{Fiber: f}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := c.InitServices(); err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container, reg prometheus.Registerer) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewMetricsMiddleware(reg).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func newHandlers(c *Container, jwtSvc jwt.Service) routes.Handlers {
	cfg := c.Config
	store := c.Store

	var pusher usecase.Pusher
	if c.Hub != nil {
		pusher = c.Hub
	}
	out := usecase.NewBroadcaster(c.Events, pusher, c.Logger)

	profileUC := usecase.NewProfileUsecase(store, c.Logger)
	chatUC := usecase.NewChatUsecase(store, c.Toxicity, cfg.Inference.ToxicityThreshold, out, c.Logger)

	h := routes.Handlers{
		Health: handler.NewHealthHandler(c.DB),
		Auth: handler.NewAuthHandler(usecase.NewAuthUsecase(store.Users(), jwtSvc), handler.CookieConfig{
			AccessName:  cfg.JWT.CookieName,
			RefreshName: cfg.JWT.RefreshCookieName,
			Secure:      cfg.JWT.CookieSecure,
			AccessTTL:   cfg.JWT.AccessExpiresIn,
			RefreshTTL:  cfg.JWT.RefreshExpiresIn,
		}),
		User:         handler.NewUserHandler(usecase.NewUserUsecase(store)),
		Profile:      handler.NewProfileHandler(profileUC),
		Job:          handler.NewJobHandler(usecase.NewJobUsecase(store, c.Recommender, c.Logger)),
		Request:      handler.NewRequestHandler(usecase.NewRequestUsecase(store, out, c.Logger)),
		Rating:       handler.NewRatingHandler(usecase.NewRatingUsecase(store, c.Sentiment, out, c.Logger)),
		Notification: handler.NewNotificationHandler(usecase.NewNotificationUsecase(store, out)),
		Employee:     handler.NewEmployeeHandler(usecase.NewEmployeeUsecase(store)),
		Chat:         handler.NewChatHandler(chatUC),
		Admin:        handler.NewAdminHandler(usecase.NewAdminUsecase(store, adminCache(c), cfg.Redis.StatsTTL, c.Logger)),
		Upload:       handler.NewUploadHandler(usecase.NewUploadUsecase(store, c.Storage)),
	}
	if c.Hub != nil {
		h.WS = ws.NewHandler(c.Hub, chatUC, profileUC, c.Logger)
	}
	return h
}

func adminCache(c *Container) usecase.Cache {
	if c.Cache == nil {
		return nil
	}
	return c.Cache
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
