package request

import "time"

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

type Request struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	JobID      int64     `json:"job_id"`
	Status     string    `json:"status"`
	BidAmount  float64   `json:"bid_amount"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Update struct {
	Status    *string
	BidAmount *float64
	Message   *string
}

func (u Update) IsEmpty() bool {
	return u.Status == nil && u.BidAmount == nil && u.Message == nil
}

// Active reports whether a request blocks another bid by the same sender.
func Active(status string) bool {
	return status == StatusPending || status == StatusAccepted
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Actor identifies which side of a request performs a transition.
type Actor int

const (
	ActorSender Actor = iota
	ActorReceiver
	ActorAdmin
)

// CanTransition reports whether actor may move a request from one status
// to another.
func CanTransition(from, to string, actor Actor) bool {
	switch {
	case from == StatusPending && (to == StatusAccepted || to == StatusRejected):
		return actor == ActorReceiver || actor == ActorAdmin
	case from == StatusPending && to == StatusCancelled:
		return actor == ActorSender || actor == ActorAdmin
	case from == StatusAccepted && to == StatusCancelled:
		return true
	}
	return false
}

type Filter struct {
	SenderID   *int64
	ReceiverID *int64
	JobID      *int64
	Status     string
	Limit      int
	Offset     int
}
