package usecase

import (
	"context"
	"errors"
	"testing"

	"gig-market/internal/domain/job"
	"gig-market/internal/domain/rating"
	"gig-market/internal/domain/user"

	"github.com/stretchr/testify/require"
)

type stubRecommender struct {
	ids []int64
	err error
}

func (s stubRecommender) Recommend(context.Context, int64, int) ([]int64, error) {
	return s.ids, s.err
}

func TestJobUsecase_CreateDefaults(t *testing.T) {
	f := newFixture(t)
	uc := NewJobUsecase(f.store, nil, nil)
	poster, p := f.member(user.RoleProvider)

	j, err := uc.Create(f.ctx, poster, JobInput{Title: "  Dog walker  ", PayRate: 12})
	require.NoError(t, err)
	require.Equal(t, "Dog walker", j.Title)
	require.Equal(t, job.StateOpen, j.State)
	require.Equal(t, 1, j.NumWorkers)
	require.Equal(t, p.ID, j.ProfileID)

	_, err = uc.Create(f.ctx, poster, JobInput{Title: ""})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.Create(f.ctx, poster, JobInput{Title: "x", PayRate: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.Create(f.ctx, poster, JobInput{Title: "x", NumWorkers: -2})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestJobUsecase_CreateRequiresProfile(t *testing.T) {
	f := newFixture(t)
	uc := NewJobUsecase(f.store, nil, nil)

	u, err := f.store.Users().Create(f.ctx, user.User{Email: "np@example.com"})
	require.NoError(t, err)

	_, err = uc.Create(f.ctx, Actor{UserID: u.ID, Role: u.Role}, JobInput{Title: "x"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestJobUsecase_UpdateOwnership(t *testing.T) {
	f := newFixture(t)
	uc := NewJobUsecase(f.store, nil, nil)
	owner, p := f.member(user.RoleProvider)
	other, _ := f.member(user.RoleUser)
	j := f.job(p, 1)

	title := "Night shift"
	_, err := uc.Update(f.ctx, other, j.ID, job.Update{Title: &title})
	require.ErrorIs(t, err, ErrForbidden)

	got, err := uc.Update(f.ctx, owner, j.ID, job.Update{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, got.Title)

	_, err = uc.Update(f.ctx, owner, j.ID, job.Update{})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Update(f.ctx, owner, 999, job.Update{Title: &title})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestJobUsecase_DeleteRecomputesAverages(t *testing.T) {
	f := newFixture(t)
	uc := NewJobUsecase(f.store, nil, nil)
	ratings := NewRatingUsecase(f.store, nil, f.out, nil)

	owner, p := f.member(user.RoleProvider)
	_, worker := f.member(user.RoleUser)
	j := f.job(p, 1)

	_, err := ratings.Create(f.ctx, owner, RatingInput{SubjectID: worker.ID, JobID: &j.ID, Value: 1})
	require.NoError(t, err)
	other, _ := f.member(user.RoleUser)
	_, err = ratings.Create(f.ctx, other, RatingInput{SubjectID: worker.ID, Value: 5})
	require.NoError(t, err)
	require.Equal(t, 3.0, f.average(worker.ID))

	require.NoError(t, uc.Delete(f.ctx, owner, j.ID))
	require.Equal(t, 5.0, f.average(worker.ID))

	left, err := f.store.Ratings().List(f.ctx, rating.Filter{SubjectID: &worker.ID})
	require.NoError(t, err)
	require.Len(t, left, 1)

	require.ErrorIs(t, uc.Delete(f.ctx, owner, j.ID), ErrNotFound)
}

func TestJobUsecase_DeleteByStrangerChangesNothing(t *testing.T) {
	f := newFixture(t)
	uc := NewJobUsecase(f.store, nil, nil)
	_, p := f.member(user.RoleProvider)
	stranger, _ := f.member(user.RoleUser)
	j := f.job(p, 1)

	require.ErrorIs(t, uc.Delete(f.ctx, stranger, j.ID), ErrForbidden)
	_, err := uc.Get(f.ctx, j.ID)
	require.NoError(t, err)
}

func TestJobUsecase_RecommendedFallsBack(t *testing.T) {
	f := newFixture(t)
	_, poster := f.member(user.RoleProvider)
	_, seeker := f.member(user.RoleUser)
	first := f.job(poster, 1)
	second := f.job(poster, 1)

	page := Page{Limit: 10}

	uc := NewJobUsecase(f.store, stubRecommender{err: errors.New("down")}, nil)
	got, err := uc.Recommended(f.ctx, seeker.ID, page)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, second.ID, got[0].ID)

	uc = NewJobUsecase(f.store, stubRecommender{ids: []int64{first.ID}}, nil)
	got, err = uc.Recommended(f.ctx, seeker.ID, page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, first.ID, got[0].ID)

	_, err = uc.Recommended(f.ctx, 12345, page)
	require.ErrorIs(t, err, ErrNotFound)
}
