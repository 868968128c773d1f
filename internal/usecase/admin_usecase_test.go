package usecase

import (
	"errors"
	"testing"
	"time"

	"gig-market/internal/domain/job"
	"gig-market/internal/domain/stats"
	"gig-market/internal/domain/user"

	"github.com/stretchr/testify/require"
)

func TestAdminUsecase_StatsGrowth(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// two users in the previous week, three in the current one
	for _, age := range []time.Duration{10, 9, 3, 2, 1} {
		created := now.Add(-age * 24 * time.Hour)
		f.store.Now = func() time.Time { return created }
		f.member(user.RoleUser)
	}
	f.store.Now = time.Now

	uc := NewAdminUsecase(f.store, nil, time.Minute, nil)
	uc.now = func() time.Time { return now }

	got, cached, err := uc.Stats(f.ctx)
	require.NoError(t, err)
	require.False(t, cached)
	require.Equal(t, 5, got.Totals.Users)
	require.Equal(t, 5, got.Totals.UsersByRole[user.RoleUser])
	require.Equal(t, stats.Growth{Current: 3, Previous: 2, Rate: 50}, got.UserGrowth7)
	require.Equal(t, stats.Growth{Current: 5, Previous: 0, Rate: 100}, got.UserGrowth30)
	require.Equal(t, stats.Growth{}, got.JobGrowth7)
}

func TestAdminUsecase_StatsCache(t *testing.T) {
	f := newFixture(t)
	f.member(user.RoleUser)
	cache := &memCache{}
	uc := NewAdminUsecase(f.store, cache, time.Minute, nil)

	first, cached, err := uc.Stats(f.ctx)
	require.NoError(t, err)
	require.False(t, cached)

	f.member(user.RoleUser)
	second, cached, err := uc.Stats(f.ctx)
	require.NoError(t, err)
	require.True(t, cached)
	require.Equal(t, first.Totals.Users, second.Totals.Users)
}

func TestAdminUsecase_StatsWithoutCache(t *testing.T) {
	f := newFixture(t)
	f.member(user.RoleUser)
	uc := NewAdminUsecase(f.store, &memCache{err: errors.New("redis down")}, time.Minute, nil)

	got, cached, err := uc.Stats(f.ctx)
	require.NoError(t, err)
	require.False(t, cached)
	require.Equal(t, 1, got.Totals.Users)
}

func TestAdminUsecase_ChangeRoleAndDelete(t *testing.T) {
	f := newFixture(t)
	uc := NewAdminUsecase(f.store, &memCache{}, time.Minute, nil)
	admin, _ := f.member(user.RoleAdmin)
	target, _ := f.member(user.RoleUser)

	_, err := uc.ChangeRole(f.ctx, target, target.UserID, user.RoleAdmin)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = uc.ChangeRole(f.ctx, admin, target.UserID, "root")
	require.ErrorIs(t, err, ErrInvalidInput)

	got, err := uc.ChangeRole(f.ctx, admin, target.UserID, user.RoleProvider)
	require.NoError(t, err)
	require.Equal(t, user.RoleProvider, got.Role)

	require.NoError(t, uc.DeleteUser(f.ctx, admin, target.UserID))
	require.ErrorIs(t, uc.DeleteUser(f.ctx, admin, target.UserID), ErrNotFound)
	_, err = f.store.Profiles().GetByUserID(f.ctx, target.UserID)
	require.Error(t, err)
}

func TestAdminUsecase_JobsWithRequestCounts(t *testing.T) {
	f := newFixture(t)
	uc := NewAdminUsecase(f.store, nil, 0, nil)
	requests := NewRequestUsecase(f.store, f.out, nil)

	_, owner := f.member(user.RoleProvider)
	x, _ := f.member(user.RoleUser)
	j := f.job(owner, 1)
	f.job(owner, 1)
	_, err := requests.Create(f.ctx, x, RequestInput{JobID: j.ID})
	require.NoError(t, err)

	rows, total, err := uc.Jobs(f.ctx, job.Filter{Search: "barista", SortBy: "created_at"})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, j.ID, rows[0].ID)
	require.Equal(t, 1, rows[0].RequestCount)

	_, _, err = uc.Jobs(f.ctx, job.Filter{State: "nope"})
	require.ErrorIs(t, err, ErrInvalidInput)
}
