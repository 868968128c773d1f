package repotest

import (
	"context"
	"sort"

	"gig-market/internal/domain/job"
	"gig-market/internal/domain/request"
	"gig-market/internal/repository"
)

type jobs struct{ s *Store }

func (r jobs) Create(_ context.Context, j job.Job) (job.Job, error) {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.profiles[j.ProfileID]; !ok {
		return job.Job{}, repository.ErrReference
	}
	if j.State == "" {
		j.State = job.StateOpen
	}
	if j.NumWorkers == 0 {
		j.NumWorkers = 1
	}
	now := r.s.Now()
	j.ID = st.nextID()
	j.CreatedAt, j.UpdatedAt = now, now
	st.jobs[j.ID] = j
	return j, nil
}

func (r jobs) GetByID(_ context.Context, id int64) (job.Job, error) {
	st, unlock := r.s.lock()
	defer unlock()

	j, ok := st.jobs[id]
	if !ok {
		return job.Job{}, repository.ErrNotFound
	}
	return j, nil
}

func (r jobs) GetForUpdate(ctx context.Context, id int64) (job.Job, error) {
	return r.GetByID(ctx, id)
}

func (r jobs) filter(st *state, f job.Filter) []job.Job {
	out := make([]job.Job, 0)
	for _, j := range values(st.jobs, f.Desc) {
		if f.ProfileID != nil && j.ProfileID != *f.ProfileID {
			continue
		}
		if f.Category != "" && j.Category != f.Category {
			continue
		}
		if f.State != "" && j.State != f.State {
			continue
		}
		if f.Search != "" && !contains(j.Title, f.Search) {
			continue
		}
		out = append(out, j)
	}
	switch f.SortBy {
	case "pay_rate":
		sort.SliceStable(out, func(i, k int) bool {
			if f.Desc {
				return out[i].PayRate > out[k].PayRate
			}
			return out[i].PayRate < out[k].PayRate
		})
	case "title":
		sort.SliceStable(out, func(i, k int) bool {
			if f.Desc {
				return out[i].Title > out[k].Title
			}
			return out[i].Title < out[k].Title
		})
	}
	return out
}

func (r jobs) List(_ context.Context, f job.Filter) ([]job.Job, error) {
	st, unlock := r.s.lock()
	defer unlock()

	return paginate(r.filter(st, f), f.Limit, f.Offset), nil
}

func (r jobs) ListByIDs(_ context.Context, ids []int64) ([]job.Job, error) {
	st, unlock := r.s.lock()
	defer unlock()

	out := make([]job.Job, 0, len(ids))
	for _, id := range ids {
		if j, ok := st.jobs[id]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r jobs) ListForAdmin(_ context.Context, f job.Filter) ([]job.AdminRow, int, error) {
	st, unlock := r.s.lock()
	defer unlock()

	all := r.filter(st, f)
	rows := make([]job.AdminRow, 0)
	for _, j := range paginate(all, f.Limit, f.Offset) {
		n := 0
		for _, rq := range st.requests {
			if rq.JobID == j.ID {
				n++
			}
		}
		rows = append(rows, job.AdminRow{Job: j, RequestCount: n})
	}
	return rows, len(all), nil
}

func (r jobs) Update(_ context.Context, id int64, upd job.Update) error {
	if upd.IsEmpty() {
		return repository.ErrNothingToUpdate
	}
	st, unlock := r.s.lock()
	defer unlock()

	j, ok := st.jobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if upd.Title != nil {
		j.Title = *upd.Title
	}
	if upd.Description != nil {
		j.Description = *upd.Description
	}
	if upd.Category != nil {
		j.Category = *upd.Category
	}
	if upd.State != nil {
		j.State = *upd.State
	}
	if upd.PayRate != nil {
		j.PayRate = *upd.PayRate
	}
	if upd.NumWorkers != nil {
		j.NumWorkers = *upd.NumWorkers
	}
	if upd.Location != nil {
		j.Location = *upd.Location
	}
	j.UpdatedAt = r.s.Now()
	st.jobs[id] = j
	return nil
}

func (r jobs) Delete(_ context.Context, id int64) error {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	st.deleteJob(id)
	return nil
}

type requests struct{ s *Store }

func activeConflict(st *state, rq request.Request) bool {
	if !request.Active(rq.Status) {
		return false
	}
	for _, other := range st.requests {
		if other.ID != rq.ID && other.SenderID == rq.SenderID && other.JobID == rq.JobID && request.Active(other.Status) {
			return true
		}
	}
	return false
}

func (r requests) Create(_ context.Context, rq request.Request) (request.Request, error) {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.jobs[rq.JobID]; !ok {
		return request.Request{}, repository.ErrReference
	}
	if rq.Status == "" {
		rq.Status = request.StatusPending
	}
	if activeConflict(st, rq) {
		return request.Request{}, repository.ErrDuplicate
	}
	now := r.s.Now()
	rq.ID = st.nextID()
	rq.CreatedAt, rq.UpdatedAt = now, now
	st.requests[rq.ID] = rq
	return rq, nil
}

func (r requests) GetByID(_ context.Context, id int64) (request.Request, error) {
	st, unlock := r.s.lock()
	defer unlock()

	rq, ok := st.requests[id]
	if !ok {
		return request.Request{}, repository.ErrNotFound
	}
	return rq, nil
}

func (r requests) List(_ context.Context, f request.Filter) ([]request.Request, error) {
	st, unlock := r.s.lock()
	defer unlock()

	out := make([]request.Request, 0)
	for _, rq := range values(st.requests, true) {
		if f.SenderID != nil && rq.SenderID != *f.SenderID {
			continue
		}
		if f.ReceiverID != nil && rq.ReceiverID != *f.ReceiverID {
			continue
		}
		if f.JobID != nil && rq.JobID != *f.JobID {
			continue
		}
		if f.Status != "" && rq.Status != f.Status {
			continue
		}
		out = append(out, rq)
	}
	return paginate(out, f.Limit, f.Offset), nil
}

func (r requests) FindActive(_ context.Context, senderID, jobID int64) (request.Request, error) {
	st, unlock := r.s.lock()
	defer unlock()

	for _, rq := range values(st.requests, false) {
		if rq.SenderID == senderID && rq.JobID == jobID && request.Active(rq.Status) {
			return rq, nil
		}
	}
	return request.Request{}, repository.ErrNotFound
}

func (r requests) CountAccepted(_ context.Context, jobID int64) (int, error) {
	st, unlock := r.s.lock()
	defer unlock()

	n := 0
	for _, rq := range st.requests {
		if rq.JobID == jobID && rq.Status == request.StatusAccepted {
			n++
		}
	}
	return n, nil
}

func (r requests) Update(_ context.Context, id int64, upd request.Update) error {
	if upd.IsEmpty() {
		return repository.ErrNothingToUpdate
	}
	st, unlock := r.s.lock()
	defer unlock()

	rq, ok := st.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	if upd.Status != nil {
		rq.Status = *upd.Status
	}
	if upd.BidAmount != nil {
		rq.BidAmount = *upd.BidAmount
	}
	if upd.Message != nil {
		rq.Message = *upd.Message
	}
	if activeConflict(st, rq) {
		return repository.ErrDuplicate
	}
	rq.UpdatedAt = r.s.Now()
	st.requests[id] = rq
	return nil
}

func (r requests) Delete(_ context.Context, id int64) error {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.requests[id]; !ok {
		return repository.ErrNotFound
	}
	st.deleteRequest(id)
	return nil
}
