package usecase

import (
	"testing"

	"gig-market/internal/domain/employee"
	"gig-market/internal/domain/user"

	"github.com/stretchr/testify/require"
)

func TestEmployeeUsecase_OwnerHires(t *testing.T) {
	f := newFixture(t)
	uc := NewEmployeeUsecase(f.store)

	ownerActor, owner := f.member(user.RoleProvider)
	workerActor, worker := f.member(user.RoleUser)
	j := f.job(owner, 2)

	_, err := uc.Create(f.ctx, workerActor, EmployeeInput{ProfileID: worker.ID, JobID: j.ID})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = uc.Create(f.ctx, ownerActor, EmployeeInput{ProfileID: owner.ID, JobID: j.ID})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Create(f.ctx, ownerActor, EmployeeInput{ProfileID: worker.ID, JobID: j.ID, Status: "retired"})
	require.ErrorIs(t, err, ErrInvalidInput)

	e, err := uc.Create(f.ctx, ownerActor, EmployeeInput{ProfileID: worker.ID, JobID: j.ID})
	require.NoError(t, err)
	require.Equal(t, employee.StatusActive, e.Status)

	list, err := uc.List(f.ctx, employee.Filter{ProfileID: &worker.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestEmployeeUsecase_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	uc := NewEmployeeUsecase(f.store)

	ownerActor, owner := f.member(user.RoleProvider)
	workerActor, worker := f.member(user.RoleUser)
	j := f.job(owner, 1)

	e, err := uc.Create(f.ctx, ownerActor, EmployeeInput{ProfileID: worker.ID, JobID: j.ID})
	require.NoError(t, err)

	_, err = uc.Update(f.ctx, ownerActor, e.ID, employee.Update{})
	require.ErrorIs(t, err, ErrInvalidInput)

	finished := employee.StatusFinished
	_, err = uc.Update(f.ctx, workerActor, e.ID, employee.Update{Status: &finished})
	require.ErrorIs(t, err, ErrForbidden)

	got, err := uc.Update(f.ctx, ownerActor, e.ID, employee.Update{Status: &finished})
	require.NoError(t, err)
	require.Equal(t, employee.StatusFinished, got.Status)

	require.NoError(t, uc.Delete(f.ctx, ownerActor, e.ID))
	require.ErrorIs(t, uc.Delete(f.ctx, ownerActor, e.ID), ErrNotFound)
}
