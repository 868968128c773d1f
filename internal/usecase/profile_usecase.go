package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"gig-market/internal/domain/profile"
	"gig-market/internal/repository"
)

type ProfileInput struct {
	Description string
	ImageURL    *string
	Location    *string
}

type ProfileUsecase interface {
	Create(ctx context.Context, a Actor, in ProfileInput) (profile.Profile, error)
	Get(ctx context.Context, id int64) (profile.Profile, error)
	GetByUser(ctx context.Context, userID int64) (profile.Profile, error)
	List(ctx context.Context, p Page) ([]profile.Profile, error)
	Update(ctx context.Context, a Actor, id int64, upd profile.Update) (profile.Profile, error)
	Delete(ctx context.Context, a Actor, id int64) error
}

type Profile struct {
	store  repository.Store
	logger *log.Logger
}

func NewProfileUsecase(store repository.Store, logger *log.Logger) *Profile {
	if logger == nil {
		logger = log.Default()
	}
	return &Profile{store: store, logger: logger}
}

func (u *Profile) Create(ctx context.Context, a Actor, in ProfileInput) (profile.Profile, error) {
	if a.UserID <= 0 {
		return profile.Profile{}, ErrUnauthorized
	}
	p, err := u.store.Profiles().Create(ctx, profile.Profile{
		UserID:      a.UserID,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    in.ImageURL,
		Location:    in.Location,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return profile.Profile{}, conflict("user already has a profile")
		}
		return profile.Profile{}, fromRepo(err, "user")
	}
	return p, nil
}

func (u *Profile) Get(ctx context.Context, id int64) (profile.Profile, error) {
	p, err := u.store.Profiles().GetByID(ctx, id)
	return p, fromRepo(err, "profile")
}

func (u *Profile) GetByUser(ctx context.Context, userID int64) (profile.Profile, error) {
	p, err := u.store.Profiles().GetByUserID(ctx, userID)
	return p, fromRepo(err, "profile")
}

func (u *Profile) List(ctx context.Context, p Page) ([]profile.Profile, error) {
	return u.store.Profiles().List(ctx, p.Limit, p.Offset)
}

func (u *Profile) Update(ctx context.Context, a Actor, id int64, upd profile.Update) (profile.Profile, error) {
	if upd.IsEmpty() {
		return profile.Profile{}, invalid("no updatable fields supplied")
	}
	if _, err := u.store.Profiles().GetByID(ctx, id); err != nil {
		return profile.Profile{}, fromRepo(err, "profile")
	}
	if err := authorize(ctx, u.store, a, id); err != nil {
		return profile.Profile{}, err
	}
	if err := u.store.Profiles().Update(ctx, id, upd); err != nil {
		return profile.Profile{}, fromRepo(err, "profile")
	}
	return u.Get(ctx, id)
}

func (u *Profile) Delete(ctx context.Context, a Actor, id int64) error {
	if _, err := u.store.Profiles().GetByID(ctx, id); err != nil {
		return fromRepo(err, "profile")
	}
	if err := authorize(ctx, u.store, a, id); err != nil {
		return err
	}
	return u.store.WithTx(ctx, func(tx repository.Store) error {
		return deleteProfile(ctx, tx, id)
	})
}

// deleteProfile removes the profile and refreshes the averages of every
// subject that loses ratings with it. Must run inside a transaction.
func deleteProfile(ctx context.Context, tx repository.Store, id int64) error {
	affected, err := tx.Ratings().SubjectsAffectedByProfile(ctx, id)
	if err != nil {
		return err
	}
	if err := tx.Profiles().Delete(ctx, id); err != nil {
		return fromRepo(err, "profile")
	}
	return recompute(ctx, tx, affected...)
}

func recompute(ctx context.Context, tx repository.Store, subjects ...int64) error {
	for _, id := range subjects {
		if _, err := tx.Profiles().RecomputeAverage(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	return nil
}
