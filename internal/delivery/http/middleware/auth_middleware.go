package middleware

import (
	"errors"
	"slices"
	"strings"

	"gig-market/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"
	CtxRoleKey   = "role"
)

type AuthMiddleware struct {
	jwt        jwt.Service
	cookieName string
}

// NewAuthMiddleware reads the access token from cookieName and falls back
// to the Authorization header.
func NewAuthMiddleware(jwtSvc jwt.Service, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, cookieName: cookieName}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := m.token(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		if claims.TokenType != jwt.TokenTypeAccess || m.jwt.IsRefreshToken(claims) {
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, nil)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)
		c.Locals(CtxRoleKey, claims.Role)

		return c.Next()
	}
}

func (m *AuthMiddleware) token(c fiber.Ctx) (string, bool) {
	if m.cookieName != "" {
		if tok := strings.TrimSpace(c.Cookies(m.cookieName)); tok != "" {
			return tok, true
		}
	}
	return BearerToken(c.Get("Authorization"))
}

// RequireRole admits callers whose token role is one of roles. It must run
// after the auth middleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		role, _ := c.Locals(CtxRoleKey).(string)
		if role == "" || !slices.Contains(roles, role) {
			return NewAppError(fiber.StatusUnauthorized, "Insufficient role", nil, nil)
		}
		return c.Next()
	}
}

// Identity returns the caller stored by the auth middleware.
func Identity(c fiber.Ctx) (int64, string, bool) {
	id, ok := c.Locals(CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, "", false
	}
	role, _ := c.Locals(CtxRoleKey).(string)
	return id, role, true
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
