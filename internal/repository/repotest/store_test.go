package repotest

import (
	"context"
	"errors"
	"testing"

	"gig-market/internal/domain/profile"
	"gig-market/internal/domain/user"
	"gig-market/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestStore_WithTxRestoresStateOnError(t *testing.T) {
	s := New()
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().Create(ctx, user.User{Email: "a@example.com"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetByEmail(ctx, "a@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_DeleteUserCascadesToProfile(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.Users().Create(ctx, user.User{Email: "a@example.com"})
	require.NoError(t, err)
	p, err := s.Profiles().Create(ctx, profile.Profile{UserID: u.ID})
	require.NoError(t, err)

	require.NoError(t, s.Users().Delete(ctx, u.ID))
	_, err = s.Profiles().GetByID(ctx, p.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
