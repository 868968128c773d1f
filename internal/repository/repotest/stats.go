package repotest

import (
	"context"
	"time"

	"gig-market/internal/domain/stats"
)

type statsRepo struct{ s *Store }

func (r statsRepo) Totals(_ context.Context) (stats.Totals, error) {
	st, unlock := r.s.lock()
	defer unlock()

	t := stats.Totals{
		Users:            len(st.users),
		UsersByRole:      map[string]int{},
		Profiles:         len(st.profiles),
		Jobs:             len(st.jobs),
		JobsByState:      map[string]int{},
		Requests:         len(st.requests),
		RequestsByStatus: map[string]int{},
		Ratings:          len(st.ratings),
		Messages:         len(st.messages),
	}
	for _, u := range st.users {
		t.UsersByRole[u.Role]++
	}
	for _, j := range st.jobs {
		t.JobsByState[j.State]++
	}
	for _, rq := range st.requests {
		t.RequestsByStatus[rq.Status]++
	}
	sum := 0
	for _, rt := range st.ratings {
		sum += rt.Value
	}
	if len(st.ratings) > 0 {
		t.AverageRating = float64(sum) / float64(len(st.ratings))
	}
	return t, nil
}

func between(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r statsRepo) UsersCreatedBetween(_ context.Context, from, to time.Time) (int, error) {
	st, unlock := r.s.lock()
	defer unlock()

	n := 0
	for _, u := range st.users {
		if between(u.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (r statsRepo) JobsCreatedBetween(_ context.Context, from, to time.Time) (int, error) {
	st, unlock := r.s.lock()
	defer unlock()

	n := 0
	for _, j := range st.jobs {
		if between(j.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}
