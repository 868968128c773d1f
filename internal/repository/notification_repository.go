package repository

import (
	"context"
	"fmt"

	"gig-market/internal/database"
	"gig-market/internal/domain/notification"
)

const notificationColumns = `id, receiver_id, sender_id, type, message, is_read, created_at`

type PostgresNotificationRepository struct {
	db database.Querier
}

func NewPostgresNotificationRepository(db database.Querier) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func scanNotification(row scanner) (notification.Notification, error) {
	var n notification.Notification
	if err := row.Scan(&n.ID, &n.ReceiverID, &n.SenderID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
		return notification.Notification{}, mapError(err)
	}
	return n, nil
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO notifications (receiver_id, sender_id, type, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+notificationColumns,
		n.ReceiverID, n.SenderID, n.Type, n.Message,
	)
	return scanNotification(row)
}

func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id int64) (notification.Notification, error) {
	return scanNotification(r.db.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
}

func (r *PostgresNotificationRepository) List(ctx context.Context, f notification.Filter) ([]notification.Notification, error) {
	limit, offset := page(f.Limit, f.Offset)

	var w where
	if f.ReceiverID != nil {
		w.add("receiver_id = $%d", *f.ReceiverID)
	}
	if f.UnreadOnly {
		w.add("is_read = $%d", false)
	}

	q := fmt.Sprintf(`SELECT %s FROM notifications%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		notificationColumns, w.String(), w.next(), w.next()+1)
	rows, err := r.db.Query(ctx, q, append(w.args, limit, offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, receiverID int64) (int, error) {
	var n int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE receiver_id = $1 AND NOT is_read`, receiverID)
	if err := row.Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (r *PostgresNotificationRepository) Update(ctx context.Context, id int64, upd notification.Update) error {
	var s updateSet
	setIf(&s, "is_read", upd.IsRead)
	return execUpdate(ctx, r.db, &s, "notifications", id, false)
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, receiverID int64) (int64, error) {
	n, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE receiver_id = $1 AND NOT is_read`, receiverID)
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (r *PostgresNotificationRepository) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, `DELETE FROM notifications WHERE id = $1`, id)
}
