package user

import (
	"context"
	"errors"
	"strings"

	"gig-market/internal/domain/profile"
	"gig-market/internal/domain/user"
	"gig-market/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
)

type UpdateMeInput struct {
	FirstName *string
	LastName  *string
}

// Me is the authenticated user with their profile, when one exists.
type Me struct {
	User    user.User        `json:"user"`
	Profile *profile.Profile `json:"profile"`
}

type Service struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
}

func NewService(users repository.UserRepository, profiles repository.ProfileRepository) *Service {
	return &Service{users: users, profiles: profiles}
}

func (s *Service) GetMe(ctx context.Context, userID int64) (Me, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Me{}, ErrNotFound
		}
		return Me{}, err
	}

	me := Me{User: usr}
	p, err := s.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		me.Profile = &p
	case !errors.Is(err, repository.ErrNotFound):
		return Me{}, err
	}
	return me, nil
}

func (s *Service) UpdateMe(ctx context.Context, userID int64, in UpdateMeInput) (Me, error) {
	var upd user.Update
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		upd.FirstName = &v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		upd.LastName = &v
	}
	if upd.IsEmpty() {
		return Me{}, ErrInvalidInput
	}

	if err := s.users.Update(ctx, userID, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Me{}, ErrNotFound
		}
		return Me{}, err
	}
	return s.GetMe(ctx, userID)
}
