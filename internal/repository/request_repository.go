package repository

import (
	"context"
	"fmt"

	"gig-market/internal/database"
	"gig-market/internal/domain/request"
)

const requestColumns = `id, sender_id, receiver_id, job_id, status, bid_amount, message, created_at, updated_at`

type PostgresRequestRepository struct {
	db database.Querier
}

func NewPostgresRequestRepository(db database.Querier) *PostgresRequestRepository {
	return &PostgresRequestRepository{db: db}
}

func scanRequest(row scanner) (request.Request, error) {
	var rq request.Request
	err := row.Scan(&rq.ID, &rq.SenderID, &rq.ReceiverID, &rq.JobID, &rq.Status,
		&rq.BidAmount, &rq.Message, &rq.CreatedAt, &rq.UpdatedAt)
	if err != nil {
		return request.Request{}, mapError(err)
	}
	return rq, nil
}

func (r *PostgresRequestRepository) Create(ctx context.Context, rq request.Request) (request.Request, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO requests (sender_id, receiver_id, job_id, status, bid_amount, message)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+requestColumns,
		rq.SenderID, rq.ReceiverID, rq.JobID, rq.Status, rq.BidAmount, rq.Message,
	)
	return scanRequest(row)
}

func (r *PostgresRequestRepository) GetByID(ctx context.Context, id int64) (request.Request, error) {
	return scanRequest(r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id))
}

func (r *PostgresRequestRepository) List(ctx context.Context, f request.Filter) ([]request.Request, error) {
	limit, offset := page(f.Limit, f.Offset)

	var w where
	if f.SenderID != nil {
		w.add("sender_id = $%d", *f.SenderID)
	}
	if f.ReceiverID != nil {
		w.add("receiver_id = $%d", *f.ReceiverID)
	}
	if f.JobID != nil {
		w.add("job_id = $%d", *f.JobID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}

	q := fmt.Sprintf(`SELECT %s FROM requests%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		requestColumns, w.String(), w.next(), w.next()+1)
	rows, err := r.db.Query(ctx, q, append(w.args, limit, offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]request.Request, 0)
	for rows.Next() {
		rq, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRequestRepository) FindActive(ctx context.Context, senderID, jobID int64) (request.Request, error) {
	return scanRequest(r.db.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM requests
		 WHERE sender_id = $1 AND job_id = $2 AND status IN ('pending', 'accepted')
		 LIMIT 1`,
		senderID, jobID,
	))
}

func (r *PostgresRequestRepository) CountAccepted(ctx context.Context, jobID int64) (int, error) {
	var n int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM requests WHERE job_id = $1 AND status = 'accepted'`, jobID)
	if err := row.Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (r *PostgresRequestRepository) Update(ctx context.Context, id int64, upd request.Update) error {
	var s updateSet
	setIf(&s, "status", upd.Status)
	setIf(&s, "bid_amount", upd.BidAmount)
	setIf(&s, "message", upd.Message)
	return execUpdate(ctx, r.db, &s, "requests", id, true)
}

func (r *PostgresRequestRepository) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, `DELETE FROM requests WHERE id = $1`, id)
}
