package usecase

import (
	"context"
	"log"
	"strconv"

	"gig-market/internal/domain/chat"
	"gig-market/internal/domain/notification"
	"gig-market/internal/domain/rating"
	"gig-market/internal/domain/request"
)

const (
	SubjectNotificationCreated  = "notification.created"
	SubjectRequestStatusChanged = "request.status_changed"
	SubjectRatingChanged        = "rating.changed"
	SubjectMessageSent          = "message.sent"
)

const (
	EventNotification   = "notification"
	EventMessageNew     = "message.new"
	EventMessageEdited  = "message.edited"
	EventMessageDeleted = "message.deleted"
	EventMessagesRead   = "messages.read"
)

func ChatRoom(chatID int64) string {
	return "chat:" + strconv.FormatInt(chatID, 10)
}

func ProfileRoom(profileID int64) string {
	return "profile:" + strconv.FormatInt(profileID, 10)
}

type RequestStatusEvent struct {
	RequestID  int64  `json:"request_id"`
	JobID      int64  `json:"job_id"`
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	From       string `json:"from,omitempty"`
	To         string `json:"to"`
}

type RatingChangedEvent struct {
	RatingID  int64   `json:"rating_id"`
	SubjectID int64   `json:"subject_id"`
	Op        string  `json:"op"`
	Average   float64 `json:"average_rating"`
}

// Broadcaster fans committed changes out to the event bus and websocket
// rooms. Delivery failures are logged and never reach the caller.
type Broadcaster struct {
	events EventPublisher
	push   Pusher
	logger *log.Logger
}

func NewBroadcaster(events EventPublisher, push Pusher, logger *log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.Default()
	}
	return &Broadcaster{events: events, push: push, logger: logger}
}

func (b *Broadcaster) publish(ctx context.Context, subject string, payload any) {
	if b == nil || b.events == nil {
		return
	}
	if err := b.events.Publish(ctx, subject, payload); err != nil {
		b.logger.Printf("Broadcaster | publish failed subject=%s err=%v", subject, err)
	}
}

func (b *Broadcaster) broadcast(room, event string, payload any) {
	if b == nil || b.push == nil {
		return
	}
	b.push.Broadcast(room, event, payload)
}

func (b *Broadcaster) Notifications(ctx context.Context, ns ...notification.Notification) {
	for _, n := range ns {
		b.broadcast(ProfileRoom(n.ReceiverID), EventNotification, n)
		b.publish(ctx, SubjectNotificationCreated, n)
	}
}

func (b *Broadcaster) RequestStatus(ctx context.Context, rq request.Request, from string) {
	b.publish(ctx, SubjectRequestStatusChanged, RequestStatusEvent{
		RequestID:  rq.ID,
		JobID:      rq.JobID,
		SenderID:   rq.SenderID,
		ReceiverID: rq.ReceiverID,
		From:       from,
		To:         rq.Status,
	})
}

func (b *Broadcaster) RatingChanged(ctx context.Context, rt rating.Rating, op string, average float64) {
	b.publish(ctx, SubjectRatingChanged, RatingChangedEvent{
		RatingID:  rt.ID,
		SubjectID: rt.SubjectID,
		Op:        op,
		Average:   average,
	})
}

func (b *Broadcaster) Message(ctx context.Context, event string, m chat.Message) {
	b.broadcast(ChatRoom(m.ChatID), event, m)
	if event == EventMessageNew {
		b.publish(ctx, SubjectMessageSent, m)
	}
}

func (b *Broadcaster) MessagesRead(chatID, readerID int64) {
	b.broadcast(ChatRoom(chatID), EventMessagesRead, map[string]int64{"chat_id": chatID, "reader_id": readerID})
}
