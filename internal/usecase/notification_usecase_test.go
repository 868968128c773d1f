package usecase

import (
	"testing"

	"gig-market/internal/domain/notification"
	"gig-market/internal/domain/user"

	"github.com/stretchr/testify/require"
)

func TestNotificationUsecase_Inbox(t *testing.T) {
	f := newFixture(t)
	uc := NewNotificationUsecase(f.store, f.out)
	sender, _ := f.member(user.RoleUser)
	receiver, rp := f.member(user.RoleUser)

	n, err := uc.Create(f.ctx, sender, NotificationInput{ReceiverID: rp.ID, Message: "ping"})
	require.NoError(t, err)
	require.Equal(t, notification.TypeGeneral, n.Type)

	count, err := uc.UnreadCount(f.ctx, receiver, 0)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, err = uc.Get(f.ctx, sender, n.ID)
	require.ErrorIs(t, err, ErrForbidden)

	read := true
	got, err := uc.Update(f.ctx, receiver, n.ID, notification.Update{IsRead: &read})
	require.NoError(t, err)
	require.True(t, got.IsRead)

	_, err = uc.Update(f.ctx, receiver, n.ID, notification.Update{})
	require.ErrorIs(t, err, ErrInvalidInput)

	list, err := uc.List(f.ctx, receiver, notification.Filter{UnreadOnly: true})
	require.NoError(t, err)
	require.Empty(t, list)

	require.NoError(t, uc.Delete(f.ctx, receiver, n.ID))
	require.ErrorIs(t, uc.Delete(f.ctx, receiver, n.ID), ErrNotFound)
}

func TestNotificationUsecase_MarkAllRead(t *testing.T) {
	f := newFixture(t)
	uc := NewNotificationUsecase(f.store, f.out)
	sender, _ := f.member(user.RoleUser)
	receiver, rp := f.member(user.RoleUser)

	for i := 0; i < 3; i++ {
		_, err := uc.Create(f.ctx, sender, NotificationInput{ReceiverID: rp.ID, Message: "ping"})
		require.NoError(t, err)
	}
	n, err := uc.MarkAllRead(f.ctx, receiver)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestNewPage(t *testing.T) {
	p, err := NewPage(0, 0)
	require.NoError(t, err)
	require.Equal(t, Page{Limit: 20}, p)

	p, err = NewPage(500, 40)
	require.NoError(t, err)
	require.Equal(t, Page{Limit: 100, Offset: 40}, p)

	_, err = NewPage(10, -1)
	require.ErrorIs(t, err, ErrInvalidInput)
}
