package user

import (
	"strings"
	"time"
)

const (
	RoleUser     = "user"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Role              string    `json:"role"`
	VerificationToken *string   `json:"-"`
	Verified          bool      `json:"verified"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Update lists the user columns an administrator may change.
type Update struct {
	FirstName *string
	LastName  *string
	Role      *string
}

func (u Update) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Role == nil
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// SelfAssignable reports whether a role may be chosen at signup.
func SelfAssignable(role string) bool {
	return role == RoleUser || role == RoleProvider
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Filter struct {
	Role   string
	Search string
	SortBy string
	Desc   bool
	Limit  int
	Offset int
}
