package repository

import (
	"context"
	"time"

	"gig-market/internal/database"
	"gig-market/internal/domain/stats"
)

type PostgresStatsRepository struct {
	db database.Querier
}

func NewPostgresStatsRepository(db database.Querier) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

func (r *PostgresStatsRepository) Totals(ctx context.Context) (stats.Totals, error) {
	t := stats.Totals{
		UsersByRole:      map[string]int{},
		JobsByState:      map[string]int{},
		RequestsByStatus: map[string]int{},
	}

	row := r.db.QueryRow(ctx,
		`SELECT
		    (SELECT COUNT(*) FROM users)::int,
		    (SELECT COUNT(*) FROM profiles)::int,
		    (SELECT COUNT(*) FROM jobs)::int,
		    (SELECT COUNT(*) FROM requests)::int,
		    (SELECT COUNT(*) FROM ratings)::int,
		    (SELECT COUNT(*) FROM messages)::int,
		    (SELECT COALESCE(AVG(value), 0)::float8 FROM ratings)`,
	)
	if err := row.Scan(&t.Users, &t.Profiles, &t.Jobs, &t.Requests, &t.Ratings, &t.Messages, &t.AverageRating); err != nil {
		return stats.Totals{}, mapError(err)
	}

	breakdowns := []struct {
		query string
		into  map[string]int
	}{
		{`SELECT role, COUNT(*)::int FROM users GROUP BY role`, t.UsersByRole},
		{`SELECT state, COUNT(*)::int FROM jobs GROUP BY state`, t.JobsByState},
		{`SELECT status, COUNT(*)::int FROM requests GROUP BY status`, t.RequestsByStatus},
	}
	for _, b := range breakdowns {
		if err := r.groupCount(ctx, b.query, b.into); err != nil {
			return stats.Totals{}, err
		}
	}
	return t, nil
}

func (r *PostgresStatsRepository) groupCount(ctx context.Context, q string, into map[string]int) error {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}

func (r *PostgresStatsRepository) UsersCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.countBetween(ctx, `SELECT COUNT(*)::int FROM users WHERE created_at >= $1 AND created_at < $2`, from, to)
}

func (r *PostgresStatsRepository) JobsCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.countBetween(ctx, `SELECT COUNT(*)::int FROM jobs WHERE created_at >= $1 AND created_at < $2`, from, to)
}

func (r *PostgresStatsRepository) countBetween(ctx context.Context, q string, from, to time.Time) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, q, from, to).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}
