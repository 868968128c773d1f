package usecase

import (
	"context"

	"gig-market/internal/domain/employee"
	"gig-market/internal/repository"
)

type EmployeeInput struct {
	ProfileID int64
	JobID     int64
	Status    string
}

type EmployeeUsecase interface {
	Create(ctx context.Context, a Actor, in EmployeeInput) (employee.Employee, error)
	Get(ctx context.Context, id int64) (employee.Employee, error)
	List(ctx context.Context, f employee.Filter) ([]employee.Employee, error)
	Update(ctx context.Context, a Actor, id int64, upd employee.Update) (employee.Employee, error)
	Delete(ctx context.Context, a Actor, id int64) error
}

type Employee struct {
	store repository.Store
}

func NewEmployeeUsecase(store repository.Store) *Employee {
	return &Employee{store: store}
}

// Create records a hire made outside the request workflow. Only the job
// owner may hire.
func (u *Employee) Create(ctx context.Context, a Actor, in EmployeeInput) (employee.Employee, error) {
	status := in.Status
	if status == "" {
		status = employee.StatusActive
	}
	if !employee.ValidStatus(status) {
		return employee.Employee{}, invalid("unknown employee status %q", status)
	}
	j, err := u.store.Jobs().GetByID(ctx, in.JobID)
	if err != nil {
		return employee.Employee{}, fromRepo(err, "job")
	}
	if err := authorize(ctx, u.store, a, j.ProfileID); err != nil {
		return employee.Employee{}, err
	}
	if in.ProfileID == j.ProfileID {
		return employee.Employee{}, invalid("cannot hire yourself")
	}
	if _, err := u.store.Profiles().GetByID(ctx, in.ProfileID); err != nil {
		return employee.Employee{}, fromRepo(err, "profile")
	}

	e, err := u.store.Employees().Create(ctx, employee.Employee{
		ProfileID: in.ProfileID,
		JobID:     in.JobID,
		Status:    status,
	})
	return e, fromRepo(err, "employee")
}

func (u *Employee) Get(ctx context.Context, id int64) (employee.Employee, error) {
	e, err := u.store.Employees().GetByID(ctx, id)
	return e, fromRepo(err, "employee")
}

func (u *Employee) List(ctx context.Context, f employee.Filter) ([]employee.Employee, error) {
	return u.store.Employees().List(ctx, f)
}

func (u *Employee) ownerOf(ctx context.Context, e employee.Employee) (int64, error) {
	j, err := u.store.Jobs().GetByID(ctx, e.JobID)
	if err != nil {
		return 0, fromRepo(err, "job")
	}
	return j.ProfileID, nil
}

func (u *Employee) Update(ctx context.Context, a Actor, id int64, upd employee.Update) (employee.Employee, error) {
	if upd.IsEmpty() {
		return employee.Employee{}, invalid("no updatable fields supplied")
	}
	if !employee.ValidStatus(*upd.Status) {
		return employee.Employee{}, invalid("unknown employee status %q", *upd.Status)
	}
	e, err := u.Get(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	owner, err := u.ownerOf(ctx, e)
	if err != nil {
		return employee.Employee{}, err
	}
	if err := authorize(ctx, u.store, a, owner); err != nil {
		return employee.Employee{}, err
	}
	if err := u.store.Employees().Update(ctx, id, upd); err != nil {
		return employee.Employee{}, fromRepo(err, "employee")
	}
	return u.Get(ctx, id)
}

func (u *Employee) Delete(ctx context.Context, a Actor, id int64) error {
	e, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	owner, err := u.ownerOf(ctx, e)
	if err != nil {
		return err
	}
	if err := authorize(ctx, u.store, a, owner); err != nil {
		return err
	}
	return fromRepo(u.store.Employees().Delete(ctx, id), "employee")
}
