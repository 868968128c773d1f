package repository

import (
	"context"
	"fmt"

	"gig-market/internal/database"
	"gig-market/internal/domain/job"
)

const jobColumns = `id, profile_id, title, description, category, state, pay_rate, num_workers, location, created_at, updated_at`

type PostgresJobRepository struct {
	db database.Querier
}

func NewPostgresJobRepository(db database.Querier) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func scanJob(row scanner) (job.Job, error) {
	var j job.Job
	err := row.Scan(&j.ID, &j.ProfileID, &j.Title, &j.Description, &j.Category, &j.State,
		&j.PayRate, &j.NumWorkers, &j.Location, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return job.Job{}, mapError(err)
	}
	return j, nil
}

func collectJobs(rows database.Rows, err error) ([]job.Job, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (profile_id, title, description, category, state, pay_rate, num_workers, location)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+jobColumns,
		j.ProfileID, j.Title, j.Description, j.Category, j.State, j.PayRate, j.NumWorkers, j.Location,
	)
	return scanJob(row)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id int64) (job.Job, error) {
	return scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
}

func (r *PostgresJobRepository) GetForUpdate(ctx context.Context, id int64) (job.Job, error) {
	return scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, id))
}

var jobSortColumns = map[string]string{
	"created_at": "created_at",
	"pay_rate":   "pay_rate",
	"title":      "title",
}

func jobWhere(f job.Filter) where {
	var w where
	if f.ProfileID != nil {
		w.add("profile_id = $%d", *f.ProfileID)
	}
	if f.Category != "" {
		w.add("category = $%d", f.Category)
	}
	if f.State != "" {
		w.add("state = $%d", f.State)
	}
	if f.Search != "" {
		w.add("title ILIKE $%d", "%"+f.Search+"%")
	}
	return w
}

func (r *PostgresJobRepository) List(ctx context.Context, f job.Filter) ([]job.Job, error) {
	limit, offset := page(f.Limit, f.Offset)
	w := jobWhere(f)
	q := fmt.Sprintf(`SELECT %s FROM jobs%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		jobColumns, w.String(), orderBy(jobSortColumns, f.SortBy, "created_at", f.Desc), w.next(), w.next()+1)
	return collectJobs(r.db.Query(ctx, q, append(w.args, limit, offset)...))
}

func (r *PostgresJobRepository) ListByIDs(ctx context.Context, ids []int64) ([]job.Job, error) {
	if len(ids) == 0 {
		return []job.Job{}, nil
	}
	return collectJobs(r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ANY($1) ORDER BY array_position($1, id)`,
		ids,
	))
}

func (r *PostgresJobRepository) ListForAdmin(ctx context.Context, f job.Filter) ([]job.AdminRow, int, error) {
	limit, offset := page(f.Limit, f.Offset)
	w := jobWhere(f)
	q := fmt.Sprintf(
		`SELECT %s,
			(SELECT COUNT(*) FROM requests rq WHERE rq.job_id = jobs.id)::int,
			COUNT(*) OVER()
		 FROM jobs%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		jobColumns, w.String(), orderBy(jobSortColumns, f.SortBy, "created_at", f.Desc), w.next(), w.next()+1)

	rows, err := r.db.Query(ctx, q, append(w.args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]job.AdminRow, 0)
	total := 0
	for rows.Next() {
		var a job.AdminRow
		if err := rows.Scan(&a.ID, &a.ProfileID, &a.Title, &a.Description, &a.Category, &a.State,
			&a.PayRate, &a.NumWorkers, &a.Location, &a.CreatedAt, &a.UpdatedAt, &a.RequestCount, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresJobRepository) Update(ctx context.Context, id int64, upd job.Update) error {
	var s updateSet
	setIf(&s, "title", upd.Title)
	setIf(&s, "description", upd.Description)
	setIf(&s, "category", upd.Category)
	setIf(&s, "state", upd.State)
	setIf(&s, "pay_rate", upd.PayRate)
	setIf(&s, "num_workers", upd.NumWorkers)
	setIf(&s, "location", upd.Location)
	return execUpdate(ctx, r.db, &s, "jobs", id, true)
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, `DELETE FROM jobs WHERE id = $1`, id)
}
