package usecase

import (
	"testing"

	"gig-market/internal/domain/notification"
	"gig-market/internal/domain/user"

	"github.com/stretchr/testify/require"
)

func TestChatUsecase_OpenIsIdempotent(t *testing.T) {
	f := newFixture(t)
	uc := NewChatUsecase(f.store, nil, 0.8, f.out, nil)
	a, ap := f.member(user.RoleUser)
	b, bp := f.member(user.RoleUser)

	c1, created, err := uc.Open(f.ctx, a, bp.ID)
	require.NoError(t, err)
	require.True(t, created)

	c2, created, err := uc.Open(f.ctx, b, ap.ID)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, c1.ID, c2.ID)

	_, _, err = uc.Open(f.ctx, a, ap.ID)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestChatUsecase_SendAndRead(t *testing.T) {
	f := newFixture(t)
	uc := NewChatUsecase(f.store, nil, 0.8, f.out, nil)
	a, _ := f.member(user.RoleUser)
	b, bp := f.member(user.RoleUser)
	outsider, _ := f.member(user.RoleUser)

	m, err := uc.Send(f.ctx, a, SendInput{ReceiverID: bp.ID, Content: "hello"})
	require.NoError(t, err)
	require.Equal(t, bp.ID, m.ReceiverID)
	require.Contains(t, f.rec.rooms, ChatRoom(m.ChatID)+" "+EventMessageNew)
	require.Contains(t, f.rec.subjects, SubjectMessageSent)

	notes, err := f.store.Notifications().List(f.ctx, notification.Filter{ReceiverID: &bp.ID})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, notification.TypeMessageReceived, notes[0].Type)

	_, err = uc.Messages(f.ctx, outsider, m.ChatID, Page{Limit: 10})
	require.ErrorIs(t, err, ErrForbidden)

	list, err := uc.List(f.ctx, b, 0, Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, list[0].UnreadCount)

	n, err := uc.MarkRead(f.ctx, b, m.ChatID)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	msgs, err := uc.Messages(f.ctx, b, m.ChatID, Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.True(t, msgs[0].ReadStatus)
}

func TestChatUsecase_ToxicityScreen(t *testing.T) {
	f := newFixture(t)
	a, _ := f.member(user.RoleUser)
	_, bp := f.member(user.RoleUser)

	strict := NewChatUsecase(f.store, fixedClassifier{res: Classification{Label: LabelToxic, Confidence: 0.95}}, 0.8, f.out, nil)
	_, err := strict.Send(f.ctx, a, SendInput{ReceiverID: bp.ID, Content: "..."})
	require.ErrorIs(t, err, ErrInvalidInput)

	lenient := NewChatUsecase(f.store, fixedClassifier{res: Classification{Label: LabelToxic, Confidence: 0.5}}, 0.8, f.out, nil)
	_, err = lenient.Send(f.ctx, a, SendInput{ReceiverID: bp.ID, Content: "..."})
	require.NoError(t, err)
}

func TestChatUsecase_EditReactDelete(t *testing.T) {
	f := newFixture(t)
	uc := NewChatUsecase(f.store, nil, 0.8, f.out, nil)
	a, _ := f.member(user.RoleUser)
	b, bp := f.member(user.RoleUser)

	m, err := uc.Send(f.ctx, a, SendInput{ReceiverID: bp.ID, Content: "helo"})
	require.NoError(t, err)

	_, err = uc.Edit(f.ctx, b, m.ID, "hijack")
	require.ErrorIs(t, err, ErrForbidden)

	edited, err := uc.Edit(f.ctx, a, m.ID, "hello")
	require.NoError(t, err)
	require.Equal(t, "hello", edited.Content)

	reacted, err := uc.React(f.ctx, b, m.ID, "love")
	require.NoError(t, err)
	require.Equal(t, "love", *reacted.Reaction)

	_, err = uc.React(f.ctx, b, m.ID, "meh")
	require.ErrorIs(t, err, ErrInvalidInput)

	cleared, err := uc.React(f.ctx, b, m.ID, "")
	require.NoError(t, err)
	require.Nil(t, cleared.Reaction)

	require.ErrorIs(t, uc.DeleteMessage(f.ctx, b, m.ID), ErrForbidden)
	require.NoError(t, uc.DeleteMessage(f.ctx, a, m.ID))
	require.ErrorIs(t, uc.DeleteMessage(f.ctx, a, m.ID), ErrNotFound)
}
