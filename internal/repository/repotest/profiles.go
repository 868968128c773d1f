package repotest

import (
	"context"

	"gig-market/internal/domain/profile"
	"gig-market/internal/repository"
)

type profiles struct{ s *Store }

func (r profiles) Create(_ context.Context, p profile.Profile) (profile.Profile, error) {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.users[p.UserID]; !ok {
		return profile.Profile{}, repository.ErrReference
	}
	for _, existing := range st.profiles {
		if existing.UserID == p.UserID {
			return profile.Profile{}, repository.ErrDuplicate
		}
	}
	now := r.s.Now()
	p.ID = st.nextID()
	p.AverageRating, p.RatingCount = 0, 0
	p.CreatedAt, p.UpdatedAt = now, now
	st.profiles[p.ID] = p
	return p, nil
}

func (r profiles) GetByID(_ context.Context, id int64) (profile.Profile, error) {
	st, unlock := r.s.lock()
	defer unlock()

	p, ok := st.profiles[id]
	if !ok {
		return profile.Profile{}, repository.ErrNotFound
	}
	return p, nil
}

func (r profiles) GetByUserID(_ context.Context, userID int64) (profile.Profile, error) {
	st, unlock := r.s.lock()
	defer unlock()

	for _, p := range st.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return profile.Profile{}, repository.ErrNotFound
}

func (r profiles) List(_ context.Context, limit, offset int) ([]profile.Profile, error) {
	st, unlock := r.s.lock()
	defer unlock()

	return paginate(values(st.profiles, false), limit, offset), nil
}

func (r profiles) Update(_ context.Context, id int64, upd profile.Update) error {
	if upd.IsEmpty() {
		return repository.ErrNothingToUpdate
	}
	st, unlock := r.s.lock()
	defer unlock()

	p, ok := st.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.ImageURL != nil {
		p.ImageURL = upd.ImageURL
	}
	if upd.Location != nil {
		p.Location = upd.Location
	}
	p.UpdatedAt = r.s.Now()
	st.profiles[id] = p
	return nil
}

func (r profiles) Delete(_ context.Context, id int64) error {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.profiles[id]; !ok {
		return repository.ErrNotFound
	}
	st.deleteProfile(id)
	return nil
}

func (r profiles) RecomputeAverage(_ context.Context, subjectID int64) (float64, error) {
	st, unlock := r.s.lock()
	defer unlock()

	p, ok := st.profiles[subjectID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	sum, n := 0, 0
	for _, rt := range st.ratings {
		if rt.SubjectID == subjectID {
			sum += rt.Value
			n++
		}
	}
	p.AverageRating = 0
	if n > 0 {
		p.AverageRating = float64(sum) / float64(n)
	}
	p.RatingCount = n
	st.profiles[subjectID] = p
	return p.AverageRating, nil
}
