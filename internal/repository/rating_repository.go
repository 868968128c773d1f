package repository

import (
	"context"
	"fmt"

	"gig-market/internal/database"
	"gig-market/internal/domain/rating"
)

const ratingColumns = `id, rater_id, subject_id, job_id, value, feedback, sentiment_label, sentiment_score, created_at, updated_at`

type PostgresRatingRepository struct {
	db database.Querier
}

func NewPostgresRatingRepository(db database.Querier) *PostgresRatingRepository {
	return &PostgresRatingRepository{db: db}
}

func scanRating(row scanner) (rating.Rating, error) {
	var rt rating.Rating
	err := row.Scan(&rt.ID, &rt.RaterID, &rt.SubjectID, &rt.JobID, &rt.Value, &rt.Feedback,
		&rt.SentimentLabel, &rt.SentimentScore, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return rating.Rating{}, mapError(err)
	}
	return rt, nil
}

func (r *PostgresRatingRepository) Create(ctx context.Context, rt rating.Rating) (rating.Rating, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO ratings (rater_id, subject_id, job_id, value, feedback, sentiment_label, sentiment_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+ratingColumns,
		rt.RaterID, rt.SubjectID, rt.JobID, rt.Value, rt.Feedback, rt.SentimentLabel, rt.SentimentScore,
	)
	return scanRating(row)
}

func (r *PostgresRatingRepository) GetByID(ctx context.Context, id int64) (rating.Rating, error) {
	return scanRating(r.db.QueryRow(ctx, `SELECT `+ratingColumns+` FROM ratings WHERE id = $1`, id))
}

// FindByKey matches the job with COALESCE so a rating without a job only
// collides with another rating without a job.
func (r *PostgresRatingRepository) FindByKey(ctx context.Context, key rating.Key) (rating.Rating, error) {
	return scanRating(r.db.QueryRow(ctx,
		`SELECT `+ratingColumns+` FROM ratings
		 WHERE rater_id = $1 AND subject_id = $2 AND COALESCE(job_id, 0) = COALESCE($3::bigint, 0)`,
		key.RaterID, key.SubjectID, key.JobID,
	))
}

func (r *PostgresRatingRepository) List(ctx context.Context, f rating.Filter) ([]rating.Rating, error) {
	limit, offset := page(f.Limit, f.Offset)

	var w where
	if f.RaterID != nil {
		w.add("rater_id = $%d", *f.RaterID)
	}
	if f.SubjectID != nil {
		w.add("subject_id = $%d", *f.SubjectID)
	}
	if f.JobID != nil {
		w.add("job_id = $%d", *f.JobID)
	}

	q := fmt.Sprintf(`SELECT %s FROM ratings%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		ratingColumns, w.String(), w.next(), w.next()+1)
	rows, err := r.db.Query(ctx, q, append(w.args, limit, offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]rating.Rating, 0)
	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRatingRepository) Update(ctx context.Context, id int64, upd rating.Update) error {
	var s updateSet
	setIf(&s, "value", upd.Value)
	setIf(&s, "feedback", upd.Feedback)
	setIf(&s, "sentiment_label", upd.SentimentLabel)
	setIf(&s, "sentiment_score", upd.SentimentScore)
	return execUpdate(ctx, r.db, &s, "ratings", id, true)
}

func (r *PostgresRatingRepository) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, `DELETE FROM ratings WHERE id = $1`, id)
}

func (r *PostgresRatingRepository) DeleteByJob(ctx context.Context, jobID int64) (int64, error) {
	n, err := r.db.Exec(ctx, `DELETE FROM ratings WHERE job_id = $1`, jobID)
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func (r *PostgresRatingRepository) SubjectsByJob(ctx context.Context, jobID int64) ([]int64, error) {
	return scanIDs(r.db.Query(ctx, `SELECT DISTINCT subject_id FROM ratings WHERE job_id = $1`, jobID))
}

func (r *PostgresRatingRepository) SubjectsAffectedByProfile(ctx context.Context, profileID int64) ([]int64, error) {
	return scanIDs(r.db.Query(ctx,
		`SELECT DISTINCT subject_id FROM ratings
		 WHERE subject_id <> $1
		   AND (rater_id = $1 OR job_id IN (SELECT id FROM jobs WHERE profile_id = $1))`,
		profileID,
	))
}

// CountHiredFiveStar counts five-star ratings the subject received from
// raters whose request on the rated job was accepted.
func (r *PostgresRatingRepository) CountHiredFiveStar(ctx context.Context, subjectID int64) (int, error) {
	var n int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT rt.id)
		 FROM ratings rt
		 JOIN requests rq ON rq.job_id = rt.job_id AND rq.sender_id = rt.rater_id AND rq.status = 'accepted'
		 WHERE rt.subject_id = $1 AND rt.value = 5`,
		subjectID,
	)
	if err := row.Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}
