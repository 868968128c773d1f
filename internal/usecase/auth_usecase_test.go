package usecase

import (
	"testing"
	"time"

	"gig-market/internal/domain/user"
	"gig-market/internal/pkg/jwt"
	"gig-market/internal/repository/repotest"
	ucauth "gig-market/internal/usecase/auth"

	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*Auth, *repotest.Store, *jwt.HMACService) {
	t.Helper()
	store := repotest.New()
	svc := jwt.NewHMACService("a", "r", time.Minute, time.Hour)
	return NewAuthUsecase(store.Users(), svc), store, svc
}

func TestAuthUsecase_RegisterLoginRefresh(t *testing.T) {
	uc, _, svc := newAuth(t)
	ctx := t.Context()

	usr, sess, err := uc.Register(ctx, ucauth.RegisterInput{Email: " Ann@Example.com ", Password: "password1", Role: user.RoleProvider})
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", usr.Email)
	require.NotNil(t, usr.VerificationToken)
	require.False(t, usr.Verified)

	claims, err := svc.ValidateToken(sess.AccessToken)
	require.NoError(t, err)
	require.Equal(t, usr.ID, claims.UserID)
	require.Equal(t, user.RoleProvider, claims.Role)

	_, _, err = uc.Register(ctx, ucauth.RegisterInput{Email: "ann@example.com", Password: "password2"})
	require.ErrorIs(t, err, ErrConflict)

	_, _, err = uc.Login(ctx, ucauth.LoginInput{Email: "ann@example.com", Password: "wrong-pass"})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, sess, err = uc.Login(ctx, ucauth.LoginInput{Email: "ANN@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = uc.Refresh(ctx, sess.AccessToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	next, err := uc.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, next.AccessToken)
}

func TestAuthUsecase_RegisterValidation(t *testing.T) {
	uc, _, _ := newAuth(t)
	ctx := t.Context()

	cases := []ucauth.RegisterInput{
		{Email: "", Password: "password1"},
		{Email: "no-at-sign", Password: "password1"},
		{Email: "a@example.com", Password: "short"},
		{Email: "a@example.com", Password: "password1", Role: user.RoleAdmin},
	}
	for _, in := range cases {
		_, _, err := uc.Register(ctx, in)
		require.ErrorIs(t, err, ErrInvalidInput, "input %+v", in)
	}
}

func TestAuthUsecase_Verify(t *testing.T) {
	uc, store, _ := newAuth(t)
	ctx := t.Context()

	usr, _, err := uc.Register(ctx, ucauth.RegisterInput{Email: "v@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = uc.Verify(ctx, "not-a-token")
	require.ErrorIs(t, err, ErrInvalidInput)

	verified, err := uc.Verify(ctx, *usr.VerificationToken)
	require.NoError(t, err)
	require.True(t, verified.Verified)

	stored, err := store.Users().GetByID(ctx, usr.ID)
	require.NoError(t, err)
	require.True(t, stored.Verified)
	require.Nil(t, stored.VerificationToken)
}
