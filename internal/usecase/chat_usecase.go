package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gig-market/internal/domain/chat"
	"gig-market/internal/domain/notification"
	"gig-market/internal/repository"
)

const LabelToxic = "toxic"

type SendInput struct {
	ChatID        int64
	ReceiverID    int64
	Content       string
	AttachmentURL *string
}

type ChatUsecase interface {
	Open(ctx context.Context, a Actor, profileID int64) (chat.Chat, bool, error)
	Get(ctx context.Context, a Actor, chatID int64) (chat.Chat, error)
	List(ctx context.Context, a Actor, profileID int64, p Page) ([]chat.Summary, error)
	Messages(ctx context.Context, a Actor, chatID int64, p Page) ([]chat.Message, error)
	Send(ctx context.Context, a Actor, in SendInput) (chat.Message, error)
	Edit(ctx context.Context, a Actor, messageID int64, content string) (chat.Message, error)
	React(ctx context.Context, a Actor, messageID int64, reaction string) (chat.Message, error)
	MarkRead(ctx context.Context, a Actor, chatID int64) (int64, error)
	DeleteMessage(ctx context.Context, a Actor, messageID int64) error
	DeleteChat(ctx context.Context, a Actor, chatID int64) error
}

type Chat struct {
	store     repository.Store
	toxicity  TextClassifier
	threshold float64
	out       *Broadcaster
	logger    *log.Logger
}

func NewChatUsecase(store repository.Store, toxicity TextClassifier, threshold float64, out *Broadcaster, logger *log.Logger) *Chat {
	if logger == nil {
		logger = log.Default()
	}
	return &Chat{store: store, toxicity: toxicity, threshold: threshold, out: out, logger: logger}
}

// screen rejects content the toxicity service flags at or above the
// threshold. An unavailable service lets the message through.
func (u *Chat) screen(ctx context.Context, content string) error {
	if u.toxicity == nil || strings.TrimSpace(content) == "" {
		return nil
	}
	res, err := u.toxicity.Classify(ctx, content)
	if err != nil {
		u.logger.Printf("Toxicity | skipped err=%v", err)
		return nil
	}
	if res.Label == LabelToxic && res.Confidence >= u.threshold {
		return invalid("message rejected by content filter")
	}
	return nil
}

// participant returns the caller's profile id inside the chat. Admins pass
// with id 0.
func (u *Chat) participant(ctx context.Context, a Actor, c chat.Chat) (int64, error) {
	if a.IsAdmin() {
		return 0, nil
	}
	p, err := callerProfile(ctx, u.store, a)
	if err != nil {
		return 0, err
	}
	if !c.Includes(p.ID) {
		return 0, forbidden("caller is not part of this chat")
	}
	return p.ID, nil
}

func (u *Chat) Open(ctx context.Context, a Actor, profileID int64) (chat.Chat, bool, error) {
	me, err := callerProfile(ctx, u.store, a)
	if err != nil {
		return chat.Chat{}, false, err
	}
	if me.ID == profileID {
		return chat.Chat{}, false, invalid("cannot chat with yourself")
	}
	if _, err := u.store.Profiles().GetByID(ctx, profileID); err != nil {
		return chat.Chat{}, false, fromRepo(err, "profile")
	}
	c, created, err := u.store.Chats().GetOrCreate(ctx, me.ID, profileID)
	if err != nil {
		return chat.Chat{}, false, fromRepo(err, "profile")
	}
	return c, created, nil
}

func (u *Chat) Get(ctx context.Context, a Actor, chatID int64) (chat.Chat, error) {
	c, err := u.store.Chats().GetByID(ctx, chatID)
	if err != nil {
		return chat.Chat{}, fromRepo(err, "chat")
	}
	if _, err := u.participant(ctx, a, c); err != nil {
		return chat.Chat{}, err
	}
	return c, nil
}

// List returns the chats of profileID, or of the caller when it is zero.
func (u *Chat) List(ctx context.Context, a Actor, profileID int64, p Page) ([]chat.Summary, error) {
	if profileID == 0 {
		me, err := callerProfile(ctx, u.store, a)
		if err != nil {
			return nil, err
		}
		profileID = me.ID
	}
	if err := authorize(ctx, u.store, a, profileID); err != nil {
		return nil, err
	}
	return u.store.Chats().ListForProfile(ctx, profileID, p.Limit, p.Offset)
}

func (u *Chat) Messages(ctx context.Context, a Actor, chatID int64, p Page) ([]chat.Message, error) {
	if _, err := u.Get(ctx, a, chatID); err != nil {
		return nil, err
	}
	return u.store.Chats().ListMessages(ctx, chatID, p.Limit, p.Offset)
}

func (u *Chat) Send(ctx context.Context, a Actor, in SendInput) (chat.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && in.AttachmentURL == nil {
		return chat.Message{}, invalid("content or attachment_url is required")
	}

	var c chat.Chat
	var err error
	switch {
	case in.ChatID != 0:
		c, err = u.Get(ctx, a, in.ChatID)
	case in.ReceiverID != 0:
		c, _, err = u.Open(ctx, a, in.ReceiverID)
	default:
		err = invalid("chat_id or receiver_id is required")
	}
	if err != nil {
		return chat.Message{}, err
	}

	sender, err := callerProfile(ctx, u.store, a)
	if err != nil {
		return chat.Message{}, err
	}
	if !c.Includes(sender.ID) {
		return chat.Message{}, forbidden("caller is not part of this chat")
	}
	if err := u.screen(ctx, content); err != nil {
		return chat.Message{}, err
	}

	var (
		msg  chat.Message
		note notification.Notification
	)
	err = u.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		msg, err = tx.Chats().CreateMessage(ctx, chat.Message{
			ChatID:        c.ID,
			SenderID:      sender.ID,
			ReceiverID:    c.Other(sender.ID),
			Content:       content,
			AttachmentURL: in.AttachmentURL,
		})
		if err != nil {
			return fromRepo(err, "chat")
		}
		if err := tx.Chats().Touch(ctx, c.ID); err != nil {
			return fromRepo(err, "chat")
		}
		note, err = tx.Notifications().Create(ctx, notification.Notification{
			ReceiverID: msg.ReceiverID,
			SenderID:   &sender.ID,
			Type:       notification.TypeMessageReceived,
			Message:    fmt.Sprintf("New message in chat %d", c.ID),
		})
		return err
	})
	if err != nil {
		return chat.Message{}, err
	}

	u.out.Message(ctx, EventMessageNew, msg)
	u.out.Notifications(ctx, note)
	return msg, nil
}

func (u *Chat) message(ctx context.Context, a Actor, id int64) (chat.Message, int64, error) {
	m, err := u.store.Chats().GetMessage(ctx, id)
	if err != nil {
		return chat.Message{}, 0, fromRepo(err, "message")
	}
	c, err := u.store.Chats().GetByID(ctx, m.ChatID)
	if err != nil {
		return chat.Message{}, 0, fromRepo(err, "chat")
	}
	me, err := u.participant(ctx, a, c)
	if err != nil {
		return chat.Message{}, 0, err
	}
	return m, me, nil
}

func (u *Chat) Edit(ctx context.Context, a Actor, messageID int64, content string) (chat.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return chat.Message{}, invalid("content is required")
	}
	m, me, err := u.message(ctx, a, messageID)
	if err != nil {
		return chat.Message{}, err
	}
	if !a.IsAdmin() && m.SenderID != me {
		return chat.Message{}, forbidden("only the sender may edit a message")
	}
	if err := u.screen(ctx, content); err != nil {
		return chat.Message{}, err
	}
	return u.apply(ctx, messageID, chat.MessageUpdate{Content: &content})
}

// React sets the single reaction of a message. An empty reaction clears it.
func (u *Chat) React(ctx context.Context, a Actor, messageID int64, reaction string) (chat.Message, error) {
	reaction = strings.TrimSpace(reaction)
	if !chat.ValidReaction(reaction) {
		return chat.Message{}, invalid("unknown reaction %q", reaction)
	}
	if _, _, err := u.message(ctx, a, messageID); err != nil {
		return chat.Message{}, err
	}
	return u.apply(ctx, messageID, chat.MessageUpdate{Reaction: &reaction})
}

func (u *Chat) apply(ctx context.Context, id int64, upd chat.MessageUpdate) (chat.Message, error) {
	if err := u.store.Chats().UpdateMessage(ctx, id, upd); err != nil {
		return chat.Message{}, fromRepo(err, "message")
	}
	m, err := u.store.Chats().GetMessage(ctx, id)
	if err != nil {
		return chat.Message{}, fromRepo(err, "message")
	}
	u.out.Message(ctx, EventMessageEdited, m)
	return m, nil
}

func (u *Chat) MarkRead(ctx context.Context, a Actor, chatID int64) (int64, error) {
	c, err := u.store.Chats().GetByID(ctx, chatID)
	if err != nil {
		return 0, fromRepo(err, "chat")
	}
	me, err := callerProfile(ctx, u.store, a)
	if err != nil {
		return 0, err
	}
	if !c.Includes(me.ID) {
		return 0, forbidden("caller is not part of this chat")
	}
	n, err := u.store.Chats().MarkRead(ctx, chatID, me.ID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		u.out.MessagesRead(chatID, me.ID)
	}
	return n, nil
}

func (u *Chat) DeleteMessage(ctx context.Context, a Actor, messageID int64) error {
	m, me, err := u.message(ctx, a, messageID)
	if err != nil {
		return err
	}
	if !a.IsAdmin() && m.SenderID != me {
		return forbidden("only the sender may delete a message")
	}
	if err := u.store.Chats().DeleteMessage(ctx, messageID); err != nil {
		return fromRepo(err, "message")
	}
	u.out.Message(ctx, EventMessageDeleted, m)
	return nil
}

func (u *Chat) DeleteChat(ctx context.Context, a Actor, chatID int64) error {
	if _, err := u.Get(ctx, a, chatID); err != nil {
		return err
	}
	return fromRepo(u.store.Chats().Delete(ctx, chatID), "chat")
}
