package usecase

import (
	"context"
	"errors"
	"fmt"

	"gig-market/internal/domain/user"
	"gig-market/internal/pkg/jwt"
	"gig-market/internal/repository"
	ucauth "gig-market/internal/usecase/auth"
)

// Session is the token pair issued at login.
type Session struct {
	AccessToken  string
	RefreshToken string
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, Session, error)
	Login(ctx context.Context, in ucauth.LoginInput) (user.User, Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	Verify(ctx context.Context, token string) (user.User, error)
}

type Auth struct {
	authSvc *ucauth.Service
	users   repository.UserRepository
	jwt     jwt.Service
}

func NewAuthUsecase(users repository.UserRepository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: ucauth.NewService(users), users: users, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.User, Session, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return user.User{}, Session{}, authError(err)
	}
	sess, err := u.issue(usr)
	if err != nil {
		return user.User{}, Session{}, err
	}
	return usr, sess, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (user.User, Session, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return user.User{}, Session{}, authError(err)
	}
	sess, err := u.issue(usr)
	if err != nil {
		return user.User{}, Session{}, err
	}
	return usr, sess, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrRefreshTokenExpired
		}
		return Session{}, ErrInvalidRefreshToken
	}

	if !u.jwt.IsRefreshToken(claims) {
		return Session{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidRefreshToken
		}
		return Session{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return u.issue(usr)
}

func (u *Auth) Verify(ctx context.Context, token string) (user.User, error) {
	usr, err := u.authSvc.Verify(ctx, token)
	if err != nil {
		return user.User{}, authError(err)
	}
	return usr, nil
}

func (u *Auth) issue(usr user.User) (Session, error) {
	id := jwt.Identity{UserID: usr.ID, Email: usr.Email, Role: usr.Role}
	access, err := u.jwt.GenerateAccessToken(id)
	if err != nil {
		return Session{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(id)
	if err != nil {
		return Session{}, ErrInternal
	}
	return Session{AccessToken: access, RefreshToken: refresh}, nil
}

func authError(err error) error {
	switch {
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, ucauth.ErrInvalidInput):
		return fmt.Errorf("%w: email must be valid, password at least %d characters, role user or provider", ErrInvalidInput, ucauth.MinPasswordLength)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case errors.Is(err, ucauth.ErrInvalidToken):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
