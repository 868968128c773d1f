package usecase

import (
	"context"
	"log"
	"strings"

	"gig-market/internal/domain/job"
	"gig-market/internal/repository"
)

type JobInput struct {
	Title       string
	Description string
	Category    string
	PayRate     float64
	NumWorkers  int
	Location    string
	State       string
}

type JobUsecase interface {
	Create(ctx context.Context, a Actor, in JobInput) (job.Job, error)
	Get(ctx context.Context, id int64) (job.Job, error)
	List(ctx context.Context, f job.Filter) ([]job.Job, error)
	Recommended(ctx context.Context, profileID int64, p Page) ([]job.Job, error)
	Update(ctx context.Context, a Actor, id int64, upd job.Update) (job.Job, error)
	Delete(ctx context.Context, a Actor, id int64) error
}

type Job struct {
	store       repository.Store
	recommender Recommender
	logger      *log.Logger
}

func NewJobUsecase(store repository.Store, recommender Recommender, logger *log.Logger) *Job {
	if logger == nil {
		logger = log.Default()
	}
	return &Job{store: store, recommender: recommender, logger: logger}
}

func (u *Job) Create(ctx context.Context, a Actor, in JobInput) (job.Job, error) {
	poster, err := callerProfile(ctx, u.store, a)
	if err != nil {
		return job.Job{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return job.Job{}, invalid("title is required")
	}
	if in.PayRate < 0 {
		return job.Job{}, invalid("pay_rate must not be negative")
	}
	workers := in.NumWorkers
	if workers == 0 {
		workers = 1
	}
	if workers < 1 {
		return job.Job{}, invalid("num_workers must be at least 1")
	}
	state := in.State
	if state == "" {
		state = job.StateOpen
	}
	if !job.ValidState(state) {
		return job.Job{}, invalid("unknown job state %q", state)
	}

	j, err := u.store.Jobs().Create(ctx, job.Job{
		ProfileID:   poster.ID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		State:       state,
		PayRate:     in.PayRate,
		NumWorkers:  workers,
		Location:    strings.TrimSpace(in.Location),
	})
	return j, fromRepo(err, "profile")
}

func (u *Job) Get(ctx context.Context, id int64) (job.Job, error) {
	j, err := u.store.Jobs().GetByID(ctx, id)
	return j, fromRepo(err, "job")
}

func (u *Job) List(ctx context.Context, f job.Filter) ([]job.Job, error) {
	if f.State != "" && !job.ValidState(f.State) {
		return nil, invalid("unknown job state %q", f.State)
	}
	if f.SortBy == "" {
		f.Desc = true
	}
	return u.store.Jobs().List(ctx, f)
}

// Recommended asks the recommendation service first and falls back to the
// newest open jobs when it is absent, fails or returns nothing usable.
func (u *Job) Recommended(ctx context.Context, profileID int64, p Page) ([]job.Job, error) {
	if _, err := u.store.Profiles().GetByID(ctx, profileID); err != nil {
		return nil, fromRepo(err, "profile")
	}

	if u.recommender != nil {
		ids, err := u.recommender.Recommend(ctx, profileID, p.Limit+p.Offset)
		if err != nil {
			u.logger.Printf("Recommendation | falling back profile_id=%d err=%v", profileID, err)
		} else if len(ids) > 0 {
			jobs, err := u.store.Jobs().ListByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			open := make([]job.Job, 0, len(jobs))
			for _, j := range jobs {
				if j.State == job.StateOpen && j.ProfileID != profileID {
					open = append(open, j)
				}
			}
			if len(open) > 0 {
				if p.Offset >= len(open) {
					return []job.Job{}, nil
				}
				return open[p.Offset:min(p.Offset+p.Limit, len(open))], nil
			}
		}
	}

	return u.store.Jobs().List(ctx, job.Filter{
		State:  job.StateOpen,
		Desc:   true,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
}

func (u *Job) Update(ctx context.Context, a Actor, id int64, upd job.Update) (job.Job, error) {
	if upd.IsEmpty() {
		return job.Job{}, invalid("no updatable fields supplied")
	}
	if upd.Title != nil {
		t := strings.TrimSpace(*upd.Title)
		if t == "" {
			return job.Job{}, invalid("title must not be empty")
		}
		upd.Title = &t
	}
	if upd.State != nil && !job.ValidState(*upd.State) {
		return job.Job{}, invalid("unknown job state %q", *upd.State)
	}
	if upd.PayRate != nil && *upd.PayRate < 0 {
		return job.Job{}, invalid("pay_rate must not be negative")
	}
	if upd.NumWorkers != nil && *upd.NumWorkers < 1 {
		return job.Job{}, invalid("num_workers must be at least 1")
	}

	err := u.store.WithTx(ctx, func(tx repository.Store) error {
		j, err := tx.Jobs().GetForUpdate(ctx, id)
		if err != nil {
			return fromRepo(err, "job")
		}
		if err := authorize(ctx, tx, a, j.ProfileID); err != nil {
			return err
		}
		if upd.NumWorkers != nil {
			accepted, err := tx.Requests().CountAccepted(ctx, id)
			if err != nil {
				return err
			}
			if *upd.NumWorkers < accepted {
				return conflict("job already has %d accepted workers", accepted)
			}
		}
		return fromRepo(tx.Jobs().Update(ctx, id, upd), "job")
	})
	if err != nil {
		return job.Job{}, err
	}
	return u.Get(ctx, id)
}

// Delete removes the job with its ratings, requests and hires, and refreshes
// the averages of every profile rated on it.
func (u *Job) Delete(ctx context.Context, a Actor, id int64) error {
	return u.store.WithTx(ctx, func(tx repository.Store) error {
		j, err := tx.Jobs().GetForUpdate(ctx, id)
		if err != nil {
			return fromRepo(err, "job")
		}
		if err := authorize(ctx, tx, a, j.ProfileID); err != nil {
			return err
		}

		subjects, err := tx.Ratings().SubjectsByJob(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.Ratings().DeleteByJob(ctx, id); err != nil {
			return err
		}
		if err := tx.Jobs().Delete(ctx, id); err != nil {
			return fromRepo(err, "job")
		}
		return recompute(ctx, tx, subjects...)
	})
}
