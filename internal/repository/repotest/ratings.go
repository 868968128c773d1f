package repotest

import (
	"context"

	"gig-market/internal/domain/rating"
	"gig-market/internal/domain/request"
	"gig-market/internal/repository"
)

type ratings struct{ s *Store }

func sameSlot(a, b rating.Rating) bool {
	return a.RaterID == b.RaterID && a.SubjectID == b.SubjectID && rating.SameJob(a.JobID, b.JobID)
}

func (r ratings) Create(_ context.Context, rt rating.Rating) (rating.Rating, error) {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.profiles[rt.RaterID]; !ok {
		return rating.Rating{}, repository.ErrReference
	}
	if _, ok := st.profiles[rt.SubjectID]; !ok {
		return rating.Rating{}, repository.ErrReference
	}
	for _, existing := range st.ratings {
		if sameSlot(existing, rt) {
			return rating.Rating{}, repository.ErrDuplicate
		}
	}
	now := r.s.Now()
	rt.ID = st.nextID()
	rt.CreatedAt, rt.UpdatedAt = now, now
	st.ratings[rt.ID] = rt
	return rt, nil
}

func (r ratings) GetByID(_ context.Context, id int64) (rating.Rating, error) {
	st, unlock := r.s.lock()
	defer unlock()

	rt, ok := st.ratings[id]
	if !ok {
		return rating.Rating{}, repository.ErrNotFound
	}
	return rt, nil
}

func (r ratings) FindByKey(_ context.Context, key rating.Key) (rating.Rating, error) {
	st, unlock := r.s.lock()
	defer unlock()

	probe := rating.Rating{RaterID: key.RaterID, SubjectID: key.SubjectID, JobID: key.JobID}
	for _, rt := range st.ratings {
		if sameSlot(rt, probe) {
			return rt, nil
		}
	}
	return rating.Rating{}, repository.ErrNotFound
}

func (r ratings) List(_ context.Context, f rating.Filter) ([]rating.Rating, error) {
	st, unlock := r.s.lock()
	defer unlock()

	out := make([]rating.Rating, 0)
	for _, rt := range values(st.ratings, true) {
		if f.RaterID != nil && rt.RaterID != *f.RaterID {
			continue
		}
		if f.SubjectID != nil && rt.SubjectID != *f.SubjectID {
			continue
		}
		if f.JobID != nil && (rt.JobID == nil || *rt.JobID != *f.JobID) {
			continue
		}
		out = append(out, rt)
	}
	return paginate(out, f.Limit, f.Offset), nil
}

func (r ratings) Update(_ context.Context, id int64, upd rating.Update) error {
	if upd.IsEmpty() {
		return repository.ErrNothingToUpdate
	}
	st, unlock := r.s.lock()
	defer unlock()

	rt, ok := st.ratings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if upd.Value != nil {
		rt.Value = *upd.Value
	}
	if upd.Feedback != nil {
		rt.Feedback = *upd.Feedback
	}
	if upd.SentimentLabel != nil {
		rt.SentimentLabel = upd.SentimentLabel
	}
	if upd.SentimentScore != nil {
		rt.SentimentScore = upd.SentimentScore
	}
	rt.UpdatedAt = r.s.Now()
	st.ratings[id] = rt
	return nil
}

func (r ratings) Delete(_ context.Context, id int64) error {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.ratings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(st.ratings, id)
	return nil
}

func (r ratings) DeleteByJob(_ context.Context, jobID int64) (int64, error) {
	st, unlock := r.s.lock()
	defer unlock()

	var n int64
	for id, rt := range st.ratings {
		if rt.JobID != nil && *rt.JobID == jobID {
			delete(st.ratings, id)
			n++
		}
	}
	return n, nil
}

func (r ratings) SubjectsByJob(_ context.Context, jobID int64) ([]int64, error) {
	st, unlock := r.s.lock()
	defer unlock()

	seen := map[int64]bool{}
	out := make([]int64, 0)
	for _, rt := range values(st.ratings, false) {
		if rt.JobID != nil && *rt.JobID == jobID && !seen[rt.SubjectID] {
			seen[rt.SubjectID] = true
			out = append(out, rt.SubjectID)
		}
	}
	return out, nil
}

func (r ratings) SubjectsAffectedByProfile(_ context.Context, profileID int64) ([]int64, error) {
	st, unlock := r.s.lock()
	defer unlock()

	seen := map[int64]bool{}
	out := make([]int64, 0)
	for _, rt := range values(st.ratings, false) {
		if rt.SubjectID == profileID || seen[rt.SubjectID] {
			continue
		}
		onOwnJob := false
		if rt.JobID != nil {
			if j, ok := st.jobs[*rt.JobID]; ok && j.ProfileID == profileID {
				onOwnJob = true
			}
		}
		if rt.RaterID == profileID || onOwnJob {
			seen[rt.SubjectID] = true
			out = append(out, rt.SubjectID)
		}
	}
	return out, nil
}

func (r ratings) CountHiredFiveStar(_ context.Context, subjectID int64) (int, error) {
	st, unlock := r.s.lock()
	defer unlock()

	n := 0
	for _, rt := range st.ratings {
		if rt.SubjectID != subjectID || rt.Value != rating.MaxValue || rt.JobID == nil {
			continue
		}
		for _, rq := range st.requests {
			if rq.JobID == *rt.JobID && rq.SenderID == rt.RaterID && rq.Status == request.StatusAccepted {
				n++
				break
			}
		}
	}
	return n, nil
}
