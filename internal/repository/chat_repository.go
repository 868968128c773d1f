package repository

import (
	"context"
	"errors"

	"gig-market/internal/database"
	"gig-market/internal/domain/chat"
)

const (
	chatColumns    = `id, profile_a, profile_b, created_at, updated_at`
	messageColumns = `id, chat_id, sender_id, receiver_id, content, attachment_url, read_status, reaction, created_at, updated_at`
)

type PostgresChatRepository struct {
	db database.Querier
}

func NewPostgresChatRepository(db database.Querier) *PostgresChatRepository {
	return &PostgresChatRepository{db: db}
}

func scanChat(row scanner) (chat.Chat, error) {
	var c chat.Chat
	if err := row.Scan(&c.ID, &c.ProfileA, &c.ProfileB, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return chat.Chat{}, mapError(err)
	}
	return c, nil
}

func scanMessage(row scanner) (chat.Message, error) {
	var m chat.Message
	err := row.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.ReceiverID, &m.Content, &m.AttachmentURL,
		&m.ReadStatus, &m.Reaction, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return chat.Message{}, mapError(err)
	}
	return m, nil
}

// GetOrCreate reports created=true when this call inserted the chat. A
// concurrent insert of the same pair falls through to the select.
func (r *PostgresChatRepository) GetOrCreate(ctx context.Context, profileA, profileB int64) (chat.Chat, bool, error) {
	a, b := chat.CanonicalPair(profileA, profileB)

	c, err := scanChat(r.db.QueryRow(ctx,
		`INSERT INTO chats (profile_a, profile_b) VALUES ($1, $2)
		 ON CONFLICT (profile_a, profile_b) DO NOTHING
		 RETURNING `+chatColumns,
		a, b,
	))
	if err == nil {
		return c, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return chat.Chat{}, false, err
	}

	c, err = scanChat(r.db.QueryRow(ctx,
		`SELECT `+chatColumns+` FROM chats WHERE profile_a = $1 AND profile_b = $2`, a, b))
	if err != nil {
		return chat.Chat{}, false, err
	}
	return c, false, nil
}

func (r *PostgresChatRepository) GetByID(ctx context.Context, id int64) (chat.Chat, error) {
	return scanChat(r.db.QueryRow(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = $1`, id))
}

func (r *PostgresChatRepository) ListForProfile(ctx context.Context, profileID int64, limit, offset int) ([]chat.Summary, error) {
	limit, offset = page(limit, offset)
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.profile_a, c.profile_b, c.created_at, c.updated_at,
		        CASE WHEN c.profile_a = $1 THEN c.profile_b ELSE c.profile_a END,
		        lm.content, lm.created_at,
		        (SELECT COUNT(*) FROM messages um
		          WHERE um.chat_id = c.id AND um.receiver_id = $1 AND NOT um.read_status)::int
		 FROM chats c
		 LEFT JOIN LATERAL (
		     SELECT m.content, m.created_at FROM messages m
		     WHERE m.chat_id = c.id ORDER BY m.created_at DESC, m.id DESC LIMIT 1
		 ) lm ON TRUE
		 WHERE c.profile_a = $1 OR c.profile_b = $1
		 ORDER BY COALESCE(lm.created_at, c.updated_at) DESC, c.id DESC
		 LIMIT $2 OFFSET $3`,
		profileID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]chat.Summary, 0)
	for rows.Next() {
		var s chat.Summary
		err := rows.Scan(&s.ID, &s.ProfileA, &s.ProfileB, &s.CreatedAt, &s.UpdatedAt,
			&s.CounterpartID, &s.LastMessage, &s.LastMessageAt, &s.UnreadCount)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresChatRepository) Touch(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx, `UPDATE chats SET updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresChatRepository) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, `DELETE FROM chats WHERE id = $1`, id)
}

func (r *PostgresChatRepository) CreateMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO messages (chat_id, sender_id, receiver_id, content, attachment_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+messageColumns,
		m.ChatID, m.SenderID, m.ReceiverID, m.Content, m.AttachmentURL,
	)
	return scanMessage(row)
}

func (r *PostgresChatRepository) GetMessage(ctx context.Context, id int64) (chat.Message, error) {
	return scanMessage(r.db.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
}

// ListMessages returns a page of the chat, oldest first.
func (r *PostgresChatRepository) ListMessages(ctx context.Context, chatID int64, limit, offset int) ([]chat.Message, error) {
	limit, offset = page(limit, offset)
	rows, err := r.db.Query(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE chat_id = $1
		 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`,
		chatID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]chat.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresChatRepository) UpdateMessage(ctx context.Context, id int64, upd chat.MessageUpdate) error {
	var s updateSet
	setIf(&s, "content", upd.Content)
	if upd.Reaction != nil {
		if *upd.Reaction == "" {
			s.set("reaction", nil)
		} else {
			s.set("reaction", *upd.Reaction)
		}
	}
	return execUpdate(ctx, r.db, &s, "messages", id, true)
}

func (r *PostgresChatRepository) DeleteMessage(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, `DELETE FROM messages WHERE id = $1`, id)
}

// MarkRead flags every unread message of the chat addressed to receiverID.
func (r *PostgresChatRepository) MarkRead(ctx context.Context, chatID, receiverID int64) (int64, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE messages SET read_status = TRUE
		 WHERE chat_id = $1 AND receiver_id = $2 AND NOT read_status`,
		chatID, receiverID,
	)
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}
