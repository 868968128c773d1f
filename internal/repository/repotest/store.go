// Package repotest provides an in-memory repository.Store for usecase and
// handler tests. It enforces the unique constraints and cascades of the
// PostgreSQL schema closely enough for workflow tests.
package repotest

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"gig-market/internal/domain/chat"
	"gig-market/internal/domain/employee"
	"gig-market/internal/domain/job"
	"gig-market/internal/domain/notification"
	"gig-market/internal/domain/profile"
	"gig-market/internal/domain/rating"
	"gig-market/internal/domain/request"
	"gig-market/internal/domain/user"
	"gig-market/internal/repository"
)

type state struct {
	seq           int64
	users         map[int64]user.User
	profiles      map[int64]profile.Profile
	jobs          map[int64]job.Job
	requests      map[int64]request.Request
	ratings       map[int64]rating.Rating
	notifications map[int64]notification.Notification
	employees     map[int64]employee.Employee
	chats         map[int64]chat.Chat
	messages      map[int64]chat.Message
}

func newState() *state {
	return &state{
		users:         map[int64]user.User{},
		profiles:      map[int64]profile.Profile{},
		jobs:          map[int64]job.Job{},
		requests:      map[int64]request.Request{},
		ratings:       map[int64]rating.Rating{},
		notifications: map[int64]notification.Notification{},
		employees:     map[int64]employee.Employee{},
		chats:         map[int64]chat.Chat{},
		messages:      map[int64]chat.Message{},
	}
}

func (s *state) clone() *state {
	return &state{
		seq:           s.seq,
		users:         maps.Clone(s.users),
		profiles:      maps.Clone(s.profiles),
		jobs:          maps.Clone(s.jobs),
		requests:      maps.Clone(s.requests),
		ratings:       maps.Clone(s.ratings),
		notifications: maps.Clone(s.notifications),
		employees:     maps.Clone(s.employees),
		chats:         maps.Clone(s.chats),
		messages:      maps.Clone(s.messages),
	}
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// Store is safe for concurrent use. WithTx restores the previous state when
// fn fails.
type Store struct {
	mu   sync.Mutex
	st   *state
	inTx bool

	// Now stamps created_at and updated_at. Tests may replace it.
	Now func() time.Time
}

func New() *Store {
	return &Store{st: newState(), Now: time.Now}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Users() repository.UserRepository                 { return users{s} }
func (s *Store) Profiles() repository.ProfileRepository           { return profiles{s} }
func (s *Store) Jobs() repository.JobRepository                   { return jobs{s} }
func (s *Store) Requests() repository.RequestRepository           { return requests{s} }
func (s *Store) Ratings() repository.RatingRepository             { return ratings{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notifications{s} }
func (s *Store) Employees() repository.EmployeeRepository         { return employees{s} }
func (s *Store) Chats() repository.ChatRepository                 { return chats{s} }
func (s *Store) Stats() repository.StatsRepository                { return statsRepo{s} }

func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	s.mu.Lock()
	if s.inTx {
		s.mu.Unlock()
		return fn(s)
	}
	s.inTx = true
	snapshot := s.st.clone()
	s.mu.Unlock()

	err := fn(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = false
	if err != nil {
		s.st = snapshot
	}
	return err
}

func (s *Store) lock() (*state, func()) {
	s.mu.Lock()
	return s.st, s.mu.Unlock
}

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = repository.DefaultLimit
	}
	if limit > repository.MaxLimit {
		limit = repository.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func paginate[T any](items []T, limit, offset int) []T {
	limit, offset = page(limit, offset)
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// values returns map values ordered by id, newest first when desc.
func values[T any](m map[int64]T, desc bool) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if desc {
			return ids[i] > ids[j]
		}
		return ids[i] < ids[j]
	})
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// deleteProfile removes a profile and everything that references it.
func (st *state) deleteProfile(id int64) {
	delete(st.profiles, id)
	for jid, j := range st.jobs {
		if j.ProfileID == id {
			st.deleteJob(jid)
		}
	}
	for rid, rq := range st.requests {
		if rq.SenderID == id || rq.ReceiverID == id {
			st.deleteRequest(rid)
		}
	}
	for rid, rt := range st.ratings {
		if rt.RaterID == id || rt.SubjectID == id {
			delete(st.ratings, rid)
		}
	}
	for nid, n := range st.notifications {
		if n.ReceiverID == id {
			delete(st.notifications, nid)
			continue
		}
		if n.SenderID != nil && *n.SenderID == id {
			n.SenderID = nil
			st.notifications[nid] = n
		}
	}
	for eid, e := range st.employees {
		if e.ProfileID == id {
			delete(st.employees, eid)
		}
	}
	for cid, c := range st.chats {
		if c.Includes(id) {
			st.deleteChat(cid)
		}
	}
}

func (st *state) deleteJob(id int64) {
	delete(st.jobs, id)
	for rid, rq := range st.requests {
		if rq.JobID == id {
			st.deleteRequest(rid)
		}
	}
	for rid, rt := range st.ratings {
		if rt.JobID != nil && *rt.JobID == id {
			delete(st.ratings, rid)
		}
	}
	for eid, e := range st.employees {
		if e.JobID == id {
			delete(st.employees, eid)
		}
	}
}

func (st *state) deleteRequest(id int64) {
	delete(st.requests, id)
	for eid, e := range st.employees {
		if e.RequestID != nil && *e.RequestID == id {
			e.RequestID = nil
			st.employees[eid] = e
		}
	}
}

func (st *state) deleteChat(id int64) {
	delete(st.chats, id)
	for mid, m := range st.messages {
		if m.ChatID == id {
			delete(st.messages, mid)
		}
	}
}
