package seeder

import (
	"context"
	"fmt"
	"strings"

	"gig-market/internal/database"
	"gig-market/internal/domain/user"
	"gig-market/internal/usecase/auth"
)

// AdminSeeder creates the administrator account. An existing user with the
// same email is promoted instead; its password is left untouched.
type AdminSeeder struct {
	Email    string
	Password string
}

func (AdminSeeder) Name() string { return "admin" }

func (s AdminSeeder) Run(ctx context.Context, db database.DB) error {
	email := user.NormalizeEmail(s.Email)
	if email == "" {
		return nil
	}
	if len(strings.TrimSpace(s.Password)) < auth.MinPasswordLength {
		return fmt.Errorf("admin password must be at least %d characters", auth.MinPasswordLength)
	}
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash", "role", "verified"); err != nil {
		return err
	}

	hash, err := auth.HashPassword(s.Password)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, role, verified)
		VALUES ($1, $2, 'Admin', '', $3, TRUE)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, verified = TRUE, updated_at = now()`,
		email,
		hash,
		user.RoleAdmin,
	)
	return err
}
