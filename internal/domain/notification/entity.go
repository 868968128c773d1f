package notification

import "time"

const (
	TypeRequestReceived  = "request_received"
	TypeRequestAccepted  = "request_accepted"
	TypeRequestRejected  = "request_rejected"
	TypeRequestCancelled = "request_cancelled"
	TypeRatingReceived   = "rating_received"
	TypeMessageReceived  = "message_received"
	TypeGeneral          = "general"
)

type Notification struct {
	ID         int64     `json:"id"`
	ReceiverID int64     `json:"receiver_id"`
	SenderID   *int64    `json:"sender_id,omitempty"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type Update struct {
	IsRead *bool
}

func (u Update) IsEmpty() bool {
	return u.IsRead == nil
}

type Filter struct {
	ReceiverID *int64
	UnreadOnly bool
	Limit      int
	Offset     int
}
