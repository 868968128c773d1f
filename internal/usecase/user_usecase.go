package usecase

import (
	"context"
	"errors"

	"gig-market/internal/repository"
	ucuser "gig-market/internal/usecase/user"
)

type UserUsecase interface {
	GetMe(ctx context.Context, userID int64) (ucuser.Me, error)
	UpdateMe(ctx context.Context, userID int64, in ucuser.UpdateMeInput) (ucuser.Me, error)
}

type User struct {
	svc *ucuser.Service
}

func NewUserUsecase(store repository.Store) *User {
	return &User{svc: ucuser.NewService(store.Users(), store.Profiles())}
}

func (u *User) GetMe(ctx context.Context, userID int64) (ucuser.Me, error) {
	me, err := u.svc.GetMe(ctx, userID)
	return me, userError(err)
}

func (u *User) UpdateMe(ctx context.Context, userID int64, in ucuser.UpdateMeInput) (ucuser.Me, error) {
	me, err := u.svc.UpdateMe(ctx, userID, in)
	return me, userError(err)
}

func userError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ucuser.ErrNotFound):
		return notFound("user")
	case errors.Is(err, ucuser.ErrInvalidInput):
		return invalid("no updatable fields supplied")
	}
	return err
}
