package usecase

import (
	"context"
	"errors"

	"gig-market/internal/domain/profile"
	"gig-market/internal/domain/user"
	"gig-market/internal/repository"
)

// Actor is the authenticated caller as established by the auth middleware.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// callerProfile returns the profile of the caller, required to create
// anything that is attributed to a profile.
func callerProfile(ctx context.Context, s repository.Store, a Actor) (profile.Profile, error) {
	if a.UserID <= 0 {
		return profile.Profile{}, ErrUnauthorized
	}
	p, err := s.Profiles().GetByUserID(ctx, a.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return profile.Profile{}, invalid("caller has no profile")
	}
	if err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

// authorize lets admins through and otherwise requires the caller's profile
// to be one of owners.
func authorize(ctx context.Context, s repository.Store, a Actor, owners ...int64) error {
	if a.IsAdmin() {
		return nil
	}
	if a.UserID <= 0 {
		return ErrUnauthorized
	}
	p, err := s.Profiles().GetByUserID(ctx, a.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return forbidden("caller has no profile")
	}
	if err != nil {
		return err
	}
	for _, id := range owners {
		if p.ID == id {
			return nil
		}
	}
	return forbidden("caller does not own this resource")
}

// Page is the normalized pagination of a list call.
type Page struct {
	Limit  int
	Offset int
}

// NewPage clamps limit to [1, MaxLimit] with DefaultLimit for zero and
// rejects negative offsets.
func NewPage(limit, offset int) (Page, error) {
	if limit < 0 {
		return Page{}, invalid("limit must not be negative")
	}
	if offset < 0 {
		return Page{}, invalid("offset must not be negative")
	}
	if limit == 0 {
		limit = repository.DefaultLimit
	}
	if limit > repository.MaxLimit {
		limit = repository.MaxLimit
	}
	return Page{Limit: limit, Offset: offset}, nil
}
