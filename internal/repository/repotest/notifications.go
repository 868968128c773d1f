package repotest

import (
	"context"

	"gig-market/internal/domain/employee"
	"gig-market/internal/domain/notification"
	"gig-market/internal/repository"
)

type notifications struct{ s *Store }

func (r notifications) Create(_ context.Context, n notification.Notification) (notification.Notification, error) {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.profiles[n.ReceiverID]; !ok {
		return notification.Notification{}, repository.ErrReference
	}
	n.ID = st.nextID()
	n.IsRead = false
	n.CreatedAt = r.s.Now()
	st.notifications[n.ID] = n
	return n, nil
}

func (r notifications) GetByID(_ context.Context, id int64) (notification.Notification, error) {
	st, unlock := r.s.lock()
	defer unlock()

	n, ok := st.notifications[id]
	if !ok {
		return notification.Notification{}, repository.ErrNotFound
	}
	return n, nil
}

func (r notifications) List(_ context.Context, f notification.Filter) ([]notification.Notification, error) {
	st, unlock := r.s.lock()
	defer unlock()

	out := make([]notification.Notification, 0)
	for _, n := range values(st.notifications, true) {
		if f.ReceiverID != nil && n.ReceiverID != *f.ReceiverID {
			continue
		}
		if f.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return paginate(out, f.Limit, f.Offset), nil
}

func (r notifications) CountUnread(_ context.Context, receiverID int64) (int, error) {
	st, unlock := r.s.lock()
	defer unlock()

	c := 0
	for _, n := range st.notifications {
		if n.ReceiverID == receiverID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (r notifications) Update(_ context.Context, id int64, upd notification.Update) error {
	if upd.IsEmpty() {
		return repository.ErrNothingToUpdate
	}
	st, unlock := r.s.lock()
	defer unlock()

	n, ok := st.notifications[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.IsRead = *upd.IsRead
	st.notifications[id] = n
	return nil
}

func (r notifications) MarkAllRead(_ context.Context, receiverID int64) (int64, error) {
	st, unlock := r.s.lock()
	defer unlock()

	var c int64
	for id, n := range st.notifications {
		if n.ReceiverID == receiverID && !n.IsRead {
			n.IsRead = true
			st.notifications[id] = n
			c++
		}
	}
	return c, nil
}

func (r notifications) Delete(_ context.Context, id int64) error {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.notifications[id]; !ok {
		return repository.ErrNotFound
	}
	delete(st.notifications, id)
	return nil
}

type employees struct{ s *Store }

func (r employees) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.profiles[e.ProfileID]; !ok {
		return employee.Employee{}, repository.ErrReference
	}
	if _, ok := st.jobs[e.JobID]; !ok {
		return employee.Employee{}, repository.ErrReference
	}
	for _, existing := range st.employees {
		if existing.ProfileID == e.ProfileID && existing.JobID == e.JobID {
			return employee.Employee{}, repository.ErrDuplicate
		}
	}
	if e.Status == "" {
		e.Status = employee.StatusActive
	}
	now := r.s.Now()
	e.ID = st.nextID()
	e.CreatedAt, e.UpdatedAt = now, now
	st.employees[e.ID] = e
	return e, nil
}

func (r employees) Hire(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	st, unlock := r.s.lock()
	for id, existing := range st.employees {
		if existing.ProfileID == e.ProfileID && existing.JobID == e.JobID {
			existing.Status = e.Status
			existing.RequestID = e.RequestID
			existing.UpdatedAt = r.s.Now()
			st.employees[id] = existing
			unlock()
			return existing, nil
		}
	}
	unlock()
	return r.Create(ctx, e)
}

func (r employees) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	st, unlock := r.s.lock()
	defer unlock()

	e, ok := st.employees[id]
	if !ok {
		return employee.Employee{}, repository.ErrNotFound
	}
	return e, nil
}

func (r employees) List(_ context.Context, f employee.Filter) ([]employee.Employee, error) {
	st, unlock := r.s.lock()
	defer unlock()

	out := make([]employee.Employee, 0)
	for _, e := range values(st.employees, true) {
		if f.ProfileID != nil && e.ProfileID != *f.ProfileID {
			continue
		}
		if f.JobID != nil && e.JobID != *f.JobID {
			continue
		}
		out = append(out, e)
	}
	return paginate(out, f.Limit, f.Offset), nil
}

func (r employees) Update(_ context.Context, id int64, upd employee.Update) error {
	if upd.IsEmpty() {
		return repository.ErrNothingToUpdate
	}
	st, unlock := r.s.lock()
	defer unlock()

	e, ok := st.employees[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Status = *upd.Status
	e.UpdatedAt = r.s.Now()
	st.employees[id] = e
	return nil
}

func (r employees) Delete(_ context.Context, id int64) error {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.employees[id]; !ok {
		return repository.ErrNotFound
	}
	delete(st.employees, id)
	return nil
}
