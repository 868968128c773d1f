package repository

import (
	"fmt"
	"strings"
)

// updateSet accumulates "col = $n" assignments for a single-row UPDATE.
// Column names are always literals chosen by the repository.
type updateSet struct {
	cols []string
	args []any
}

func (s *updateSet) set(col string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

func setIf[T any](s *updateSet, col string, v *T) {
	if v != nil {
		s.set(col, *v)
	}
}

func (s *updateSet) empty() bool {
	return len(s.cols) == 0
}

// build renders the statement. touch adds updated_at = now().
func (s *updateSet) build(table string, id int64, touch bool) (string, []any) {
	cols := s.cols
	if touch {
		cols = append(cols[:len(cols):len(cols)], "updated_at = now()")
	}
	args := append(s.args[:len(s.args):len(s.args)], id)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(cols, ", "), len(args))
	return q, args
}

// page clamps pagination arguments.
func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// where accumulates AND-ed predicates with positional arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(format string, v any) {
	w.args = append(w.args, v)
	w.conds = append(w.conds, fmt.Sprintf(format, len(w.args)))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the next placeholder index.
func (w *where) next() int {
	return len(w.args) + 1
}
