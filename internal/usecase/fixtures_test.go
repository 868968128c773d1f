package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"gig-market/internal/domain/job"
	"gig-market/internal/domain/profile"
	"gig-market/internal/domain/user"
	"gig-market/internal/repository/repotest"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	subjects []string
	rooms    []string
}

func (r *recorder) Publish(_ context.Context, subject string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
	return nil
}

func (r *recorder) Broadcast(room, event string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms = append(r.rooms, room+" "+event)
}

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *repotest.Store
	rec   *recorder
	out   *Broadcaster
	n     int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := &recorder{}
	return &fixture{
		t:     t,
		ctx:   context.Background(),
		store: repotest.New(),
		rec:   rec,
		out:   NewBroadcaster(rec, rec, nil),
	}
}

// member creates a user with a profile and returns the actor and profile.
func (f *fixture) member(role string) (Actor, profile.Profile) {
	f.t.Helper()
	f.n++
	u, err := f.store.Users().Create(f.ctx, user.User{
		Email: fmt.Sprintf("member%d@example.com", f.n),
		Role:  role,
	})
	require.NoError(f.t, err)
	p, err := f.store.Profiles().Create(f.ctx, profile.Profile{UserID: u.ID})
	require.NoError(f.t, err)
	return Actor{UserID: u.ID, Role: u.Role}, p
}

func (f *fixture) job(owner profile.Profile, workers int) job.Job {
	f.t.Helper()
	j, err := f.store.Jobs().Create(f.ctx, job.Job{
		ProfileID:  owner.ID,
		Title:      "Weekend barista",
		State:      job.StateOpen,
		NumWorkers: workers,
	})
	require.NoError(f.t, err)
	return j
}

func (f *fixture) average(id int64) float64 {
	f.t.Helper()
	p, err := f.store.Profiles().GetByID(f.ctx, id)
	require.NoError(f.t, err)
	return p.AverageRating
}

type fixedClassifier struct {
	res Classification
	err error
}

func (c fixedClassifier) Classify(context.Context, string) (Classification, error) {
	return c.res, c.err
}

type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
	err   error
	reads int
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.err != nil {
		return false, c.err
	}
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.items == nil {
		c.items = map[string][]byte{}
	}
	c.items[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}
