package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateSet_BuildOnlySuppliedColumns(t *testing.T) {
	title := "Barista"
	workers := 3
	var state *string

	var s updateSet
	setIf(&s, "title", &title)
	setIf(&s, "state", state)
	setIf(&s, "num_workers", &workers)

	q, args := s.build("jobs", 42, true)
	require.Equal(t, "UPDATE jobs SET title = $1, num_workers = $2, updated_at = now() WHERE id = $3", q)
	require.Equal(t, []any{"Barista", 3, int64(42)}, args)
}

func TestUpdateSet_Empty(t *testing.T) {
	var s updateSet
	var v *int
	setIf(&s, "value", v)
	require.True(t, s.empty())
}

func TestUpdateSet_NoTouch(t *testing.T) {
	read := true
	var s updateSet
	setIf(&s, "is_read", &read)
	q, args := s.build("notifications", 7, false)
	require.Equal(t, "UPDATE notifications SET is_read = $1 WHERE id = $2", q)
	require.Equal(t, []any{true, int64(7)}, args)
}

func TestPage_Clamps(t *testing.T) {
	l, o := page(0, -5)
	require.Equal(t, DefaultLimit, l)
	require.Equal(t, 0, o)

	l, _ = page(1000, 0)
	require.Equal(t, MaxLimit, l)
}

func TestWhere_Placeholders(t *testing.T) {
	var w where
	w.add("sender_id = $%d", int64(1))
	w.add("job_id = $%d", int64(2))
	require.Equal(t, " WHERE sender_id = $1 AND job_id = $2", w.String())
	require.Equal(t, 3, w.next())
}
