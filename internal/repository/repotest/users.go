package repotest

import (
	"context"
	"sort"

	"gig-market/internal/domain/user"
	"gig-market/internal/repository"
)

type users struct{ s *Store }

func (r users) Create(_ context.Context, u user.User) (user.User, error) {
	st, unlock := r.s.lock()
	defer unlock()

	for _, existing := range st.users {
		if existing.Email == u.Email {
			return user.User{}, repository.ErrDuplicate
		}
	}
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	now := r.s.Now()
	u.ID = st.nextID()
	u.CreatedAt, u.UpdatedAt = now, now
	st.users[u.ID] = u
	return u, nil
}

func (r users) GetByID(_ context.Context, id int64) (user.User, error) {
	st, unlock := r.s.lock()
	defer unlock()

	u, ok := st.users[id]
	if !ok {
		return user.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r users) GetByEmail(_ context.Context, email string) (user.User, error) {
	st, unlock := r.s.lock()
	defer unlock()

	for _, u := range st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, repository.ErrNotFound
}

func (r users) GetByVerificationToken(_ context.Context, token string) (user.User, error) {
	st, unlock := r.s.lock()
	defer unlock()

	for _, u := range st.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			return u, nil
		}
	}
	return user.User{}, repository.ErrNotFound
}

func (r users) MarkVerified(_ context.Context, id int64) error {
	st, unlock := r.s.lock()
	defer unlock()

	u, ok := st.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Verified = true
	u.VerificationToken = nil
	u.UpdatedAt = r.s.Now()
	st.users[id] = u
	return nil
}

func (r users) Update(_ context.Context, id int64, upd user.Update) error {
	if upd.IsEmpty() {
		return repository.ErrNothingToUpdate
	}
	st, unlock := r.s.lock()
	defer unlock()

	u, ok := st.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	u.UpdatedAt = r.s.Now()
	st.users[id] = u
	return nil
}

func (r users) Delete(_ context.Context, id int64) error {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(st.users, id)
	for pid, p := range st.profiles {
		if p.UserID == id {
			st.deleteProfile(pid)
		}
	}
	return nil
}

func (r users) List(_ context.Context, f user.Filter) ([]user.User, int, error) {
	st, unlock := r.s.lock()
	defer unlock()

	out := make([]user.User, 0)
	for _, u := range values(st.users, f.Desc) {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Search != "" && !contains(u.Email, f.Search) && !contains(u.FirstName, f.Search) && !contains(u.LastName, f.Search) {
			continue
		}
		out = append(out, u)
	}
	if f.SortBy == "email" {
		sort.SliceStable(out, func(i, j int) bool {
			if f.Desc {
				return out[i].Email > out[j].Email
			}
			return out[i].Email < out[j].Email
		})
	}
	return paginate(out, f.Limit, f.Offset), len(out), nil
}
