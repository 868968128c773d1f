package repository

import (
	"context"

	"gig-market/internal/database"
)

func execUpdate(ctx context.Context, db database.Querier, s *updateSet, table string, id int64, touch bool) error {
	if s.empty() {
		return ErrNothingToUpdate
	}
	q, args := s.build(table, id, touch)
	n, err := db.Exec(ctx, q, args...)
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func execDelete(ctx context.Context, db database.Querier, q string, id int64) error {
	n, err := db.Exec(ctx, q, id)
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// orderBy resolves a caller-chosen sort key through a whitelist.
func orderBy(allowed map[string]string, key, def string, desc bool) string {
	col, ok := allowed[key]
	if !ok {
		col = def
	}
	if desc {
		return col + " DESC, id DESC"
	}
	return col + " ASC, id ASC"
}

func scanIDs(rows database.Rows, err error) ([]int64, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
