package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"gig-market/internal/domain/job"
	"gig-market/internal/domain/stats"
	"gig-market/internal/domain/user"
	"gig-market/internal/repository"
)

const AdminStatsCacheKey = "admin:stats"

type AdminUsecase interface {
	Stats(ctx context.Context) (stats.Admin, bool, error)
	Jobs(ctx context.Context, f job.Filter) ([]job.AdminRow, int, error)
	Users(ctx context.Context, f user.Filter) ([]user.User, int, error)
	ChangeRole(ctx context.Context, a Actor, userID int64, role string) (user.User, error)
	DeleteUser(ctx context.Context, a Actor, userID int64) error
}

type Admin struct {
	store    repository.Store
	cache    Cache
	cacheTTL time.Duration
	logger   *log.Logger
	now      func() time.Time
}

func NewAdminUsecase(store repository.Store, cache Cache, cacheTTL time.Duration, logger *log.Logger) *Admin {
	if logger == nil {
		logger = log.Default()
	}
	return &Admin{store: store, cache: cache, cacheTTL: cacheTTL, logger: logger, now: time.Now}
}

// Stats returns the platform aggregate and whether it came from the cache.
// A failing cache degrades to computing on every call.
func (u *Admin) Stats(ctx context.Context) (stats.Admin, bool, error) {
	if u.cache != nil {
		var cached stats.Admin
		hit, err := u.cache.GetJSON(ctx, AdminStatsCacheKey, &cached)
		if err != nil {
			u.logger.Printf("AdminStats | cache read failed err=%v", err)
		} else if hit {
			return cached, true, nil
		}
	}

	out, err := u.compute(ctx)
	if err != nil {
		return stats.Admin{}, false, err
	}

	if u.cache != nil && u.cacheTTL > 0 {
		if err := u.cache.SetJSON(ctx, AdminStatsCacheKey, out, u.cacheTTL); err != nil {
			u.logger.Printf("AdminStats | cache write failed err=%v", err)
		}
	}
	return out, false, nil
}

func (u *Admin) compute(ctx context.Context) (stats.Admin, error) {
	totals, err := u.store.Stats().Totals(ctx)
	if err != nil {
		return stats.Admin{}, err
	}
	now := u.now()

	var out stats.Admin
	out.Totals = totals
	for _, g := range []struct {
		days  int
		count func(context.Context, time.Time, time.Time) (int, error)
		into  *stats.Growth
	}{
		{7, u.store.Stats().UsersCreatedBetween, &out.UserGrowth7},
		{30, u.store.Stats().UsersCreatedBetween, &out.UserGrowth30},
		{7, u.store.Stats().JobsCreatedBetween, &out.JobGrowth7},
		{30, u.store.Stats().JobsCreatedBetween, &out.JobGrowth30},
	} {
		window := time.Duration(g.days) * 24 * time.Hour
		cur, err := g.count(ctx, now.Add(-window), now)
		if err != nil {
			return stats.Admin{}, err
		}
		prev, err := g.count(ctx, now.Add(-2*window), now.Add(-window))
		if err != nil {
			return stats.Admin{}, err
		}
		*g.into = stats.NewGrowth(cur, prev)
	}
	return out, nil
}

func (u *Admin) invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, AdminStatsCacheKey); err != nil {
		u.logger.Printf("AdminStats | cache delete failed err=%v", err)
	}
}

func (u *Admin) Jobs(ctx context.Context, f job.Filter) ([]job.AdminRow, int, error) {
	if f.State != "" && !job.ValidState(f.State) {
		return nil, 0, invalid("unknown job state %q", f.State)
	}
	return u.store.Jobs().ListForAdmin(ctx, f)
}

func (u *Admin) Users(ctx context.Context, f user.Filter) ([]user.User, int, error) {
	if f.Role != "" && !user.ValidRole(f.Role) {
		return nil, 0, invalid("unknown role %q", f.Role)
	}
	return u.store.Users().List(ctx, f)
}

func (u *Admin) ChangeRole(ctx context.Context, a Actor, userID int64, role string) (user.User, error) {
	if !a.IsAdmin() {
		return user.User{}, ErrUnauthorized
	}
	if !user.ValidRole(role) {
		return user.User{}, invalid("unknown role %q", role)
	}
	if err := u.store.Users().Update(ctx, userID, user.Update{Role: &role}); err != nil {
		return user.User{}, fromRepo(err, "user")
	}
	u.invalidate(ctx)
	usr, err := u.store.Users().GetByID(ctx, userID)
	return usr, fromRepo(err, "user")
}

// DeleteUser removes the account with its profile, refreshing the averages
// the profile's ratings contributed to.
func (u *Admin) DeleteUser(ctx context.Context, a Actor, userID int64) error {
	if !a.IsAdmin() {
		return ErrUnauthorized
	}
	if userID == a.UserID {
		return invalid("cannot delete your own account")
	}
	err := u.store.WithTx(ctx, func(tx repository.Store) error {
		p, err := tx.Profiles().GetByUserID(ctx, userID)
		switch {
		case err == nil:
			if err := deleteProfile(ctx, tx, p.ID); err != nil {
				return err
			}
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		return fromRepo(tx.Users().Delete(ctx, userID), "user")
	})
	if err != nil {
		return err
	}
	u.invalidate(ctx)
	return nil
}
