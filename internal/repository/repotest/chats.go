package repotest

import (
	"context"
	"sort"
	"time"

	"gig-market/internal/domain/chat"
	"gig-market/internal/repository"
)

type chats struct{ s *Store }

func (r chats) GetOrCreate(_ context.Context, profileA, profileB int64) (chat.Chat, bool, error) {
	a, b := chat.CanonicalPair(profileA, profileB)

	st, unlock := r.s.lock()
	defer unlock()

	for _, c := range st.chats {
		if c.ProfileA == a && c.ProfileB == b {
			return c, false, nil
		}
	}
	if _, ok := st.profiles[a]; !ok {
		return chat.Chat{}, false, repository.ErrReference
	}
	if _, ok := st.profiles[b]; !ok {
		return chat.Chat{}, false, repository.ErrReference
	}
	now := r.s.Now()
	c := chat.Chat{ID: st.nextID(), ProfileA: a, ProfileB: b, CreatedAt: now, UpdatedAt: now}
	st.chats[c.ID] = c
	return c, true, nil
}

func (r chats) GetByID(_ context.Context, id int64) (chat.Chat, error) {
	st, unlock := r.s.lock()
	defer unlock()

	c, ok := st.chats[id]
	if !ok {
		return chat.Chat{}, repository.ErrNotFound
	}
	return c, nil
}

func (r chats) ListForProfile(_ context.Context, profileID int64, limit, offset int) ([]chat.Summary, error) {
	st, unlock := r.s.lock()
	defer unlock()

	out := make([]chat.Summary, 0)
	for _, c := range values(st.chats, true) {
		if !c.Includes(profileID) {
			continue
		}
		s := chat.Summary{Chat: c, CounterpartID: c.Other(profileID)}
		var lastID int64
		for _, m := range st.messages {
			if m.ChatID != c.ID {
				continue
			}
			if m.ID > lastID {
				lastID = m.ID
				content, at := m.Content, m.CreatedAt
				s.LastMessage, s.LastMessageAt = &content, &at
			}
			if m.ReceiverID == profileID && !m.ReadStatus {
				s.UnreadCount++
			}
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lastActivity(out[i]).After(lastActivity(out[j]))
	})
	return paginate(out, limit, offset), nil
}

func lastActivity(s chat.Summary) time.Time {
	if s.LastMessageAt != nil {
		return *s.LastMessageAt
	}
	return s.UpdatedAt
}

func (r chats) Touch(_ context.Context, id int64) error {
	st, unlock := r.s.lock()
	defer unlock()

	c, ok := st.chats[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.UpdatedAt = r.s.Now()
	st.chats[id] = c
	return nil
}

func (r chats) Delete(_ context.Context, id int64) error {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.chats[id]; !ok {
		return repository.ErrNotFound
	}
	st.deleteChat(id)
	return nil
}

func (r chats) CreateMessage(_ context.Context, m chat.Message) (chat.Message, error) {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.chats[m.ChatID]; !ok {
		return chat.Message{}, repository.ErrReference
	}
	now := r.s.Now()
	m.ID = st.nextID()
	m.ReadStatus = false
	m.Reaction = nil
	m.CreatedAt, m.UpdatedAt = now, now
	st.messages[m.ID] = m
	return m, nil
}

func (r chats) GetMessage(_ context.Context, id int64) (chat.Message, error) {
	st, unlock := r.s.lock()
	defer unlock()

	m, ok := st.messages[id]
	if !ok {
		return chat.Message{}, repository.ErrNotFound
	}
	return m, nil
}

func (r chats) ListMessages(_ context.Context, chatID int64, limit, offset int) ([]chat.Message, error) {
	st, unlock := r.s.lock()
	defer unlock()

	out := make([]chat.Message, 0)
	for _, m := range values(st.messages, false) {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r chats) UpdateMessage(_ context.Context, id int64, upd chat.MessageUpdate) error {
	if upd.IsEmpty() {
		return repository.ErrNothingToUpdate
	}
	st, unlock := r.s.lock()
	defer unlock()

	m, ok := st.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	if upd.Content != nil {
		m.Content = *upd.Content
	}
	if upd.Reaction != nil {
		if *upd.Reaction == "" {
			m.Reaction = nil
		} else {
			reaction := *upd.Reaction
			m.Reaction = &reaction
		}
	}
	m.UpdatedAt = r.s.Now()
	st.messages[id] = m
	return nil
}

func (r chats) DeleteMessage(_ context.Context, id int64) error {
	st, unlock := r.s.lock()
	defer unlock()

	if _, ok := st.messages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(st.messages, id)
	return nil
}

func (r chats) MarkRead(_ context.Context, chatID, receiverID int64) (int64, error) {
	st, unlock := r.s.lock()
	defer unlock()

	var n int64
	for id, m := range st.messages {
		if m.ChatID == chatID && m.ReceiverID == receiverID && !m.ReadStatus {
			m.ReadStatus = true
			st.messages[id] = m
			n++
		}
	}
	return n, nil
}
