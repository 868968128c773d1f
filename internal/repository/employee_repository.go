package repository

import (
	"context"
	"fmt"

	"gig-market/internal/database"
	"gig-market/internal/domain/employee"
)

const employeeColumns = `id, profile_id, job_id, request_id, status, created_at, updated_at`

type PostgresEmployeeRepository struct {
	db database.Querier
}

func NewPostgresEmployeeRepository(db database.Querier) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

func scanEmployee(row scanner) (employee.Employee, error) {
	var e employee.Employee
	if err := row.Scan(&e.ID, &e.ProfileID, &e.JobID, &e.RequestID, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return employee.Employee{}, mapError(err)
	}
	return e, nil
}

func (r *PostgresEmployeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO employees (profile_id, job_id, request_id, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+employeeColumns,
		e.ProfileID, e.JobID, e.RequestID, e.Status,
	)
	return scanEmployee(row)
}

// Hire inserts the hire of the pair or revives the existing one with the new
// status and request.
func (r *PostgresEmployeeRepository) Hire(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO employees (profile_id, job_id, request_id, status)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (profile_id, job_id) DO UPDATE
		 SET status = EXCLUDED.status, request_id = EXCLUDED.request_id, updated_at = now()
		 RETURNING `+employeeColumns,
		e.ProfileID, e.JobID, e.RequestID, e.Status,
	)
	return scanEmployee(row)
}

func (r *PostgresEmployeeRepository) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	return scanEmployee(r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
}

func (r *PostgresEmployeeRepository) List(ctx context.Context, f employee.Filter) ([]employee.Employee, error) {
	limit, offset := page(f.Limit, f.Offset)

	var w where
	if f.ProfileID != nil {
		w.add("profile_id = $%d", *f.ProfileID)
	}
	if f.JobID != nil {
		w.add("job_id = $%d", *f.JobID)
	}

	q := fmt.Sprintf(`SELECT %s FROM employees%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		employeeColumns, w.String(), w.next(), w.next()+1)
	rows, err := r.db.Query(ctx, q, append(w.args, limit, offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresEmployeeRepository) Update(ctx context.Context, id int64, upd employee.Update) error {
	var s updateSet
	setIf(&s, "status", upd.Status)
	return execUpdate(ctx, r.db, &s, "employees", id, true)
}

func (r *PostgresEmployeeRepository) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, `DELETE FROM employees WHERE id = $1`, id)
}
