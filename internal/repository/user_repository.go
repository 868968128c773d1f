package repository

import (
	"context"
	"fmt"

	"gig-market/internal/database"
	"gig-market/internal/domain/user"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, verification_token, verified, created_at, updated_at`

type PostgresUserRepository struct {
	db database.Querier
}

func NewPostgresUserRepository(db database.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role,
		&u.VerificationToken, &u.Verified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return user.User{}, mapError(err)
	}
	return u, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, role, verification_token)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.VerificationToken,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *PostgresUserRepository) GetByVerificationToken(ctx context.Context, token string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE verification_token = $1`, token))
}

func (r *PostgresUserRepository) MarkVerified(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET verified = TRUE, verification_token = NULL, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, id int64, upd user.Update) error {
	var s updateSet
	setIf(&s, "first_name", upd.FirstName)
	setIf(&s, "last_name", upd.LastName)
	setIf(&s, "role", upd.Role)
	return execUpdate(ctx, r.db, &s, "users", id, true)
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, `DELETE FROM users WHERE id = $1`, id)
}

var userSortColumns = map[string]string{
	"created_at": "created_at",
	"email":      "email",
}

func (r *PostgresUserRepository) List(ctx context.Context, f user.Filter) ([]user.User, int, error) {
	limit, offset := page(f.Limit, f.Offset)

	var w where
	if f.Role != "" {
		w.add("role = $%d", f.Role)
	}
	if f.Search != "" {
		w.add("(email ILIKE $%[1]d OR first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d)", "%"+f.Search+"%")
	}

	q := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() FROM users%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		userColumns, w.String(), orderBy(userSortColumns, f.SortBy, "created_at", f.Desc), w.next(), w.next()+1)
	args := append(w.args, limit, offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	total := 0
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role,
			&u.VerificationToken, &u.Verified, &u.CreatedAt, &u.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
