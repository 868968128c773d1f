package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"gig-market/internal/database/sqldb"
	"gig-market/internal/domain/chat"
	"gig-market/internal/domain/employee"
	"gig-market/internal/domain/rating"
	"gig-market/internal/domain/request"
	repo "gig-market/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqldb.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqldb.Wrap(db), mock
}

var ratingCols = []string{"id", "rater_id", "subject_id", "job_id", "value", "feedback", "sentiment_label", "sentiment_score", "created_at", "updated_at"}

func TestPostgresRatingRepository_FindByKey_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresRatingRepository(db)

	jobID := int64(9)
	mock.ExpectQuery(regexp.QuoteMeta(`COALESCE(job_id, 0) = COALESCE($3::bigint, 0)`)).
		WithArgs(int64(1), int64(2), jobID).
		WillReturnRows(sqlmock.NewRows(ratingCols))

	_, err := r.FindByKey(context.Background(), rating.Key{RaterID: 1, SubjectID: 2, JobID: &jobID})
	require.ErrorIs(t, err, repo.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRatingRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresRatingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO ratings`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ratings_unique_slot"})

	_, err := r.Create(context.Background(), rating.Rating{RaterID: 1, SubjectID: 2, Value: 5})
	require.ErrorIs(t, err, repo.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRatingRepository_Create_Success(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresRatingRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO ratings`)).
		WithArgs(int64(1), int64(2), nil, 4, "solid work", nil, nil).
		WillReturnRows(sqlmock.NewRows(ratingCols).AddRow(int64(11), int64(1), int64(2), nil, int64(4), "solid work", nil, nil, now, now))

	rt, err := r.Create(context.Background(), rating.Rating{RaterID: 1, SubjectID: 2, Value: 4, Feedback: "solid work"})
	require.NoError(t, err)
	require.Equal(t, int64(11), rt.ID)
	require.Nil(t, rt.JobID)
	require.Equal(t, 4, rt.Value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRatingRepository_Update_Empty(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresRatingRepository(db)

	err := r.Update(context.Background(), 3, rating.Update{})
	require.ErrorIs(t, err, repo.ErrNothingToUpdate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRatingRepository_Update_OnlySuppliedColumns(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresRatingRepository(db)

	v := 3
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE ratings SET value = $1, updated_at = now() WHERE id = $2`)).
		WithArgs(3, int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Update(context.Background(), 8, rating.Update{Value: &v}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRatingRepository_CountHiredFiveStar(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresRatingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`rq.status = 'accepted'`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))

	n, err := r.CountHiredFiveStar(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRequestRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresRequestRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM requests WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.Delete(context.Background(), 404)
	require.ErrorIs(t, err, repo.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRequestRepository_Update_MissingRow(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresRequestRepository(db)

	status := request.StatusAccepted
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE requests SET status = $1`)).
		WithArgs(status, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.Update(context.Background(), 5, request.Update{Status: &status})
	require.ErrorIs(t, err, repo.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresChatRepository_GetOrCreate_Existing(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresChatRepository(db)

	cols := []string{"id", "profile_a", "profile_b", "created_at", "updated_at"}
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (profile_a, profile_b) DO NOTHING`)).
		WithArgs(int64(2), int64(7)).
		WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM chats WHERE profile_a = $1 AND profile_b = $2`)).
		WithArgs(int64(2), int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(3), int64(2), int64(7), now, now))

	c, created, err := r.GetOrCreate(context.Background(), 7, 2)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, chat.Chat{ID: 3, ProfileA: 2, ProfileB: 7, CreatedAt: now, UpdatedAt: now}, c)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresChatRepository_UpdateMessage_ClearsReaction(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresChatRepository(db)

	empty := ""
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE messages SET reaction = $1, updated_at = now() WHERE id = $2`)).
		WithArgs(nil, int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.UpdateMessage(context.Background(), 12, chat.MessageUpdate{Reaction: &empty}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_WithTx_CommitsOnSuccess(t *testing.T) {
	db, mock := newMock(t)
	s := repo.NewPostgresStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM ratings WHERE job_id = $1`)).
		WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := s.WithTx(context.Background(), func(tx repo.Store) error {
		n, err := tx.Ratings().DeleteByJob(context.Background(), 6)
		require.Equal(t, int64(2), n)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_WithTx_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	s := repo.NewPostgresStore(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := s.WithTx(context.Background(), func(tx repo.Store) error {
		return tx.WithTx(context.Background(), func(repo.Store) error { return boom })
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEmployeeRepository_Hire_RevivesExistingPair(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresEmployeeRepository(db)

	now := time.Now()
	requestID := int64(7)
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (profile_id, job_id) DO UPDATE`)).
		WithArgs(int64(3), int64(5), int64(7), employee.StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id", "job_id", "request_id", "status", "created_at", "updated_at"}).
			AddRow(int64(2), int64(3), int64(5), int64(7), employee.StatusActive, now, now))

	e, err := r.Hire(context.Background(), employee.Employee{
		ProfileID: 3, JobID: 5, RequestID: &requestID, Status: employee.StatusActive,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), e.ID)
	require.Equal(t, employee.StatusActive, e.Status)
	require.NotNil(t, e.RequestID)
	require.Equal(t, requestID, *e.RequestID)
	require.NoError(t, mock.ExpectationsWereMet())
}
