package routes

import (
	"net/http"

	"gig-market/internal/delivery/http/handler"
	"gig-market/internal/delivery/http/middleware"
	"gig-market/internal/domain/user"
	"gig-market/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Profile      *handler.ProfileHandler
	Job          *handler.JobHandler
	Request      *handler.RequestHandler
	Rating       *handler.RatingHandler
	Notification *handler.NotificationHandler
	Employee     *handler.EmployeeHandler
	Chat         *handler.ChatHandler
	Admin        *handler.AdminHandler
	Upload       *handler.UploadHandler
	WS           *ws.Handler
}

type Registry struct {
	h       Handlers
	auth    *middleware.AuthMiddleware
	metrics http.Handler
}

// NewRegistry wires handlers behind auth. metrics may be nil.
func NewRegistry(h Handlers, auth *middleware.AuthMiddleware, metrics http.Handler) *Registry {
	return &Registry{h: h, auth: auth, metrics: metrics}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerOps(app)
	r.registerAPI(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.h.Health != nil {
		r.h.Health.RegisterRoutes(app)
	}
	if r.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.metrics))
	}
	if r.h.WS != nil {
		app.Get("/ws", r.auth.Middleware(), r.h.WS.Handle)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	authMw := r.auth.Middleware()

	r.h.Auth.RegisterRoutes(api.Group("/auth"))
	r.h.User.RegisterRoutes(api.Group("/auth/me", authMw))

	r.h.Profile.RegisterRoutes(api.Group("/profile", authMw))
	r.h.Job.RegisterRoutes(api.Group("/job", authMw))
	r.h.Request.RegisterRoutes(api.Group("/request", authMw))
	r.h.Rating.RegisterRoutes(api.Group("/rating", authMw))
	r.h.Notification.RegisterRoutes(api.Group("/notification", authMw))
	r.h.Employee.RegisterRoutes(api.Group("/employee", authMw))
	r.h.Chat.RegisterRoutes(api.Group("/chat", authMw))
	r.h.Upload.RegisterRoutes(api.Group("/upload", authMw))
	r.h.Admin.RegisterRoutes(api.Group("/admin", authMw, middleware.RequireRole(user.RoleAdmin)))
}
