package usecase

import (
	"context"
	"strings"

	"gig-market/internal/domain/notification"
	"gig-market/internal/repository"
)

type NotificationInput struct {
	ReceiverID int64
	Type       string
	Message    string
}

type NotificationUsecase interface {
	Create(ctx context.Context, a Actor, in NotificationInput) (notification.Notification, error)
	Get(ctx context.Context, a Actor, id int64) (notification.Notification, error)
	List(ctx context.Context, a Actor, f notification.Filter) ([]notification.Notification, error)
	UnreadCount(ctx context.Context, a Actor, receiverID int64) (int, error)
	Update(ctx context.Context, a Actor, id int64, upd notification.Update) (notification.Notification, error)
	MarkAllRead(ctx context.Context, a Actor) (int64, error)
	Delete(ctx context.Context, a Actor, id int64) error
}

type Notification struct {
	store repository.Store
	out   *Broadcaster
}

func NewNotificationUsecase(store repository.Store, out *Broadcaster) *Notification {
	return &Notification{store: store, out: out}
}

func (u *Notification) Create(ctx context.Context, a Actor, in NotificationInput) (notification.Notification, error) {
	sender, err := callerProfile(ctx, u.store, a)
	if err != nil {
		return notification.Notification{}, err
	}
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return notification.Notification{}, invalid("message is required")
	}
	typ := strings.TrimSpace(in.Type)
	if typ == "" {
		typ = notification.TypeGeneral
	}
	if _, err := u.store.Profiles().GetByID(ctx, in.ReceiverID); err != nil {
		return notification.Notification{}, fromRepo(err, "receiver profile")
	}

	n, err := u.store.Notifications().Create(ctx, notification.Notification{
		ReceiverID: in.ReceiverID,
		SenderID:   &sender.ID,
		Type:       typ,
		Message:    msg,
	})
	if err != nil {
		return notification.Notification{}, fromRepo(err, "receiver profile")
	}
	u.out.Notifications(ctx, n)
	return n, nil
}

func (u *Notification) Get(ctx context.Context, a Actor, id int64) (notification.Notification, error) {
	n, err := u.store.Notifications().GetByID(ctx, id)
	if err != nil {
		return notification.Notification{}, fromRepo(err, "notification")
	}
	if err := authorize(ctx, u.store, a, n.ReceiverID); err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

// List defaults to the caller's own inbox.
func (u *Notification) List(ctx context.Context, a Actor, f notification.Filter) ([]notification.Notification, error) {
	if f.ReceiverID == nil {
		if a.IsAdmin() {
			return u.store.Notifications().List(ctx, f)
		}
		p, err := callerProfile(ctx, u.store, a)
		if err != nil {
			return nil, err
		}
		f.ReceiverID = &p.ID
	}
	if err := authorize(ctx, u.store, a, *f.ReceiverID); err != nil {
		return nil, err
	}
	return u.store.Notifications().List(ctx, f)
}

func (u *Notification) UnreadCount(ctx context.Context, a Actor, receiverID int64) (int, error) {
	if receiverID == 0 {
		p, err := callerProfile(ctx, u.store, a)
		if err != nil {
			return 0, err
		}
		receiverID = p.ID
	}
	if err := authorize(ctx, u.store, a, receiverID); err != nil {
		return 0, err
	}
	return u.store.Notifications().CountUnread(ctx, receiverID)
}

func (u *Notification) Update(ctx context.Context, a Actor, id int64, upd notification.Update) (notification.Notification, error) {
	if upd.IsEmpty() {
		return notification.Notification{}, invalid("no updatable fields supplied")
	}
	n, err := u.Get(ctx, a, id)
	if err != nil {
		return notification.Notification{}, err
	}
	if err := u.store.Notifications().Update(ctx, id, upd); err != nil {
		return notification.Notification{}, fromRepo(err, "notification")
	}
	n.IsRead = *upd.IsRead
	return n, nil
}

func (u *Notification) MarkAllRead(ctx context.Context, a Actor) (int64, error) {
	p, err := callerProfile(ctx, u.store, a)
	if err != nil {
		return 0, err
	}
	return u.store.Notifications().MarkAllRead(ctx, p.ID)
}

func (u *Notification) Delete(ctx context.Context, a Actor, id int64) error {
	if _, err := u.Get(ctx, a, id); err != nil {
		return err
	}
	return fromRepo(u.store.Notifications().Delete(ctx, id), "notification")
}
