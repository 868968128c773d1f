package repository

import (
	"context"

	"gig-market/internal/database"
	"gig-market/internal/domain/profile"
)

const profileColumns = `id, user_id, description, image_url, location, average_rating, rating_count, created_at, updated_at`

type PostgresProfileRepository struct {
	db database.Querier
}

func NewPostgresProfileRepository(db database.Querier) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Description, &p.ImageURL, &p.Location,
		&p.AverageRating, &p.RatingCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return profile.Profile{}, mapError(err)
	}
	return p, nil
}

func (r *PostgresProfileRepository) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO profiles (user_id, description, image_url, location)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+profileColumns,
		p.UserID, p.Description, p.ImageURL, p.Location,
	)
	return scanProfile(row)
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id int64) (profile.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID int64) (profile.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
}

func (r *PostgresProfileRepository) List(ctx context.Context, limit, offset int) ([]profile.Profile, error) {
	limit, offset = page(limit, offset)
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY id ASC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, id int64, upd profile.Update) error {
	var s updateSet
	setIf(&s, "description", upd.Description)
	setIf(&s, "image_url", upd.ImageURL)
	setIf(&s, "location", upd.Location)
	return execUpdate(ctx, r.db, &s, "profiles", id, true)
}

func (r *PostgresProfileRepository) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, `DELETE FROM profiles WHERE id = $1`, id)
}

func (r *PostgresProfileRepository) RecomputeAverage(ctx context.Context, subjectID int64) (float64, error) {
	var avg float64
	row := r.db.QueryRow(ctx,
		`UPDATE profiles p
		 SET average_rating = agg.avg, rating_count = agg.cnt, updated_at = now()
		 FROM (
			SELECT COALESCE(AVG(value), 0)::float8 AS avg, COUNT(*)::int AS cnt
			FROM ratings WHERE subject_id = $1
		 ) agg
		 WHERE p.id = $1
		 RETURNING p.average_rating`,
		subjectID,
	)
	if err := row.Scan(&avg); err != nil {
		return 0, mapError(err)
	}
	return avg, nil
}
