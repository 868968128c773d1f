package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gig-market/internal/domain/employee"
	"gig-market/internal/domain/job"
	"gig-market/internal/domain/notification"
	"gig-market/internal/domain/request"
	"gig-market/internal/repository"
)

type RequestInput struct {
	JobID     int64
	BidAmount float64
	Message   string
}

type RequestUsecase interface {
	Create(ctx context.Context, a Actor, in RequestInput) (request.Request, error)
	Get(ctx context.Context, a Actor, id int64) (request.Request, error)
	List(ctx context.Context, a Actor, f request.Filter) ([]request.Request, error)
	Update(ctx context.Context, a Actor, id int64, upd request.Update) (request.Request, error)
	Delete(ctx context.Context, a Actor, id int64) error
}

type Request struct {
	store  repository.Store
	out    *Broadcaster
	logger *log.Logger
}

func NewRequestUsecase(store repository.Store, out *Broadcaster, logger *log.Logger) *Request {
	if logger == nil {
		logger = log.Default()
	}
	return &Request{store: store, out: out, logger: logger}
}

func (u *Request) Create(ctx context.Context, a Actor, in RequestInput) (request.Request, error) {
	if in.BidAmount < 0 {
		return request.Request{}, invalid("bid_amount must not be negative")
	}

	var created request.Request
	var note notification.Notification
	err := u.store.WithTx(ctx, func(tx repository.Store) error {
		sender, err := callerProfile(ctx, tx, a)
		if err != nil {
			return err
		}
		j, err := tx.Jobs().GetForUpdate(ctx, in.JobID)
		if err != nil {
			return fromRepo(err, "job")
		}
		if j.ProfileID == sender.ID {
			return invalid("cannot request your own job")
		}
		if j.State != job.StateOpen {
			return conflict("job is %s", j.State)
		}
		if _, err := tx.Requests().FindActive(ctx, sender.ID, j.ID); err == nil {
			return conflict("an active request for this job already exists")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		created, err = tx.Requests().Create(ctx, request.Request{
			SenderID:   sender.ID,
			ReceiverID: j.ProfileID,
			JobID:      j.ID,
			Status:     request.StatusPending,
			BidAmount:  in.BidAmount,
			Message:    strings.TrimSpace(in.Message),
		})
		if err != nil {
			return fromRepo(err, "request")
		}

		note, err = tx.Notifications().Create(ctx, notification.Notification{
			ReceiverID: j.ProfileID,
			SenderID:   &sender.ID,
			Type:       notification.TypeRequestReceived,
			Message:    fmt.Sprintf("New request for %q", j.Title),
		})
		return err
	})
	if err != nil {
		return request.Request{}, err
	}

	u.out.Notifications(ctx, note)
	u.out.RequestStatus(ctx, created, "")
	return created, nil
}

func (u *Request) Get(ctx context.Context, a Actor, id int64) (request.Request, error) {
	rq, err := u.store.Requests().GetByID(ctx, id)
	if err != nil {
		return request.Request{}, fromRepo(err, "request")
	}
	if err := authorize(ctx, u.store, a, rq.SenderID, rq.ReceiverID); err != nil {
		return request.Request{}, err
	}
	return rq, nil
}

// List requires non-admin callers to scope the query to themselves: as
// sender, as receiver, or to a job they posted.
func (u *Request) List(ctx context.Context, a Actor, f request.Filter) ([]request.Request, error) {
	if f.Status != "" && !request.ValidStatus(f.Status) {
		return nil, invalid("unknown request status %q", f.Status)
	}
	if !a.IsAdmin() {
		var owners []int64
		if f.SenderID != nil {
			owners = append(owners, *f.SenderID)
		}
		if f.ReceiverID != nil {
			owners = append(owners, *f.ReceiverID)
		}
		if f.JobID != nil {
			j, err := u.store.Jobs().GetByID(ctx, *f.JobID)
			if err != nil {
				return nil, fromRepo(err, "job")
			}
			owners = append(owners, j.ProfileID)
		}
		if len(owners) == 0 {
			return nil, forbidden("filter by sender_id, receiver_id or job_id")
		}
		if err := authorize(ctx, u.store, a, owners...); err != nil {
			return nil, err
		}
	}
	return u.store.Requests().List(ctx, f)
}

func (u *Request) actorOf(ctx context.Context, tx repository.Store, a Actor, rq request.Request) (request.Actor, int64, error) {
	if a.IsAdmin() {
		return request.ActorAdmin, 0, nil
	}
	p, err := tx.Profiles().GetByUserID(ctx, a.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, 0, forbidden("caller has no profile")
	}
	if err != nil {
		return 0, 0, err
	}
	switch p.ID {
	case rq.SenderID:
		return request.ActorSender, p.ID, nil
	case rq.ReceiverID:
		return request.ActorReceiver, p.ID, nil
	}
	return 0, 0, forbidden("caller is not a party to this request")
}

// Update applies bid changes and status transitions. Accepting runs the
// capacity check, the hire and the job state change in one transaction.
func (u *Request) Update(ctx context.Context, a Actor, id int64, upd request.Update) (request.Request, error) {
	if upd.IsEmpty() {
		return request.Request{}, invalid("no updatable fields supplied")
	}
	if upd.Status != nil && !request.ValidStatus(*upd.Status) {
		return request.Request{}, invalid("unknown request status %q", *upd.Status)
	}
	if upd.BidAmount != nil && *upd.BidAmount < 0 {
		return request.Request{}, invalid("bid_amount must not be negative")
	}

	var (
		before request.Request
		after  request.Request
		notes  []notification.Notification
	)
	err := u.store.WithTx(ctx, func(tx repository.Store) error {
		rq, err := tx.Requests().GetByID(ctx, id)
		if err != nil {
			return fromRepo(err, "request")
		}
		before = rq

		j, err := tx.Jobs().GetForUpdate(ctx, rq.JobID)
		if err != nil {
			return fromRepo(err, "job")
		}

		actor, _, err := u.actorOf(ctx, tx, a, rq)
		if err != nil {
			return err
		}

		if upd.BidAmount != nil || upd.Message != nil {
			if actor == request.ActorReceiver {
				return forbidden("only the sender may change the bid")
			}
			if rq.Status != request.StatusPending {
				return conflict("bid can only change while the request is pending")
			}
		}

		changing := upd.Status != nil && *upd.Status != rq.Status
		if upd.Status != nil && !changing {
			upd.Status = nil
		}
		if changing && !request.CanTransition(rq.Status, *upd.Status, actor) {
			return conflict("cannot move request from %s to %s", rq.Status, *upd.Status)
		}

		var accepted int
		if changing && *upd.Status == request.StatusAccepted {
			if j.State != job.StateOpen {
				return conflict("job is %s", j.State)
			}
			accepted, err = tx.Requests().CountAccepted(ctx, j.ID)
			if err != nil {
				return err
			}
			if accepted >= j.NumWorkers {
				return conflict("job already has %d of %d workers", accepted, j.NumWorkers)
			}
		}

		if upd.IsEmpty() {
			after = rq
			return nil
		}
		if err := tx.Requests().Update(ctx, id, upd); err != nil {
			return fromRepo(err, "request")
		}
		after, err = tx.Requests().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !changing {
			return nil
		}

		switch after.Status {
		case request.StatusAccepted:
			if err := hire(ctx, tx, after); err != nil {
				return err
			}
			if accepted+1 >= j.NumWorkers {
				state := job.StateInProgress
				if err := tx.Jobs().Update(ctx, j.ID, job.Update{State: &state}); err != nil {
					return err
				}
			}
		case request.StatusCancelled:
			if before.Status == request.StatusAccepted {
				if err := release(ctx, tx, after, j); err != nil {
					return err
				}
			}
		}

		n, err := tx.Notifications().Create(ctx, statusNotification(after, j, actor))
		if err != nil {
			return err
		}
		notes = append(notes, n)
		return nil
	})
	if err != nil {
		return request.Request{}, err
	}

	if before.Status != after.Status {
		u.out.Notifications(ctx, notes...)
		u.out.RequestStatus(ctx, after, before.Status)
	}
	return after, nil
}

// hire records the sender as an active employee of the job, reviving an
// earlier record of the same pair.
func hire(ctx context.Context, tx repository.Store, rq request.Request) error {
	_, err := tx.Employees().Hire(ctx, employee.Employee{
		ProfileID: rq.SenderID,
		JobID:     rq.JobID,
		RequestID: &rq.ID,
		Status:    employee.StatusActive,
	})
	return fromRepo(err, "employee")
}

// release terminates the hire of a cancelled acceptance and reopens a job
// that was full.
func release(ctx context.Context, tx repository.Store, rq request.Request, j job.Job) error {
	if err := setEmployeeStatus(ctx, tx, rq.SenderID, rq.JobID, employee.StatusTerminated); err != nil {
		return err
	}
	if j.State != job.StateInProgress {
		return nil
	}
	state := job.StateOpen
	return tx.Jobs().Update(ctx, j.ID, job.Update{State: &state})
}

func setEmployeeStatus(ctx context.Context, tx repository.Store, profileID, jobID int64, status string) error {
	list, err := tx.Employees().List(ctx, employee.Filter{ProfileID: &profileID, JobID: &jobID, Limit: 1})
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return nil
	}
	return tx.Employees().Update(ctx, list[0].ID, employee.Update{Status: &status})
}

func statusNotification(rq request.Request, j job.Job, actor request.Actor) notification.Notification {
	n := notification.Notification{ReceiverID: rq.SenderID, SenderID: &rq.ReceiverID}
	switch rq.Status {
	case request.StatusAccepted:
		n.Type = notification.TypeRequestAccepted
		n.Message = fmt.Sprintf("Your request for %q was accepted", j.Title)
	case request.StatusRejected:
		n.Type = notification.TypeRequestRejected
		n.Message = fmt.Sprintf("Your request for %q was rejected", j.Title)
	default:
		n.Type = notification.TypeRequestCancelled
		n.Message = fmt.Sprintf("The request for %q was cancelled", j.Title)
		if actor == request.ActorSender {
			n.ReceiverID, n.SenderID = rq.ReceiverID, &rq.SenderID
		}
	}
	return n
}

// Delete removes the request. Deleting an accepted request releases the hire
// the same way cancelling it does.
func (u *Request) Delete(ctx context.Context, a Actor, id int64) error {
	return u.store.WithTx(ctx, func(tx repository.Store) error {
		rq, err := tx.Requests().GetByID(ctx, id)
		if err != nil {
			return fromRepo(err, "request")
		}
		if err := authorize(ctx, tx, a, rq.SenderID, rq.ReceiverID); err != nil {
			return err
		}
		if rq.Status == request.StatusAccepted {
			j, err := tx.Jobs().GetForUpdate(ctx, rq.JobID)
			if err != nil {
				return fromRepo(err, "job")
			}
			if err := release(ctx, tx, rq, j); err != nil {
				return err
			}
		}
		return fromRepo(tx.Requests().Delete(ctx, id), "request")
	})
}
