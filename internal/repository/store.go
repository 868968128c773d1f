package repository

import (
	"context"
	"time"

	"gig-market/internal/database"
	"gig-market/internal/domain/chat"
	"gig-market/internal/domain/employee"
	"gig-market/internal/domain/job"
	"gig-market/internal/domain/notification"
	"gig-market/internal/domain/profile"
	"gig-market/internal/domain/rating"
	"gig-market/internal/domain/request"
	"gig-market/internal/domain/stats"
	"gig-market/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByVerificationToken(ctx context.Context, token string) (user.User, error)
	MarkVerified(ctx context.Context, id int64) error
	Update(ctx context.Context, id int64, upd user.Update) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f user.Filter) ([]user.User, int, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, p profile.Profile) (profile.Profile, error)
	GetByID(ctx context.Context, id int64) (profile.Profile, error)
	GetByUserID(ctx context.Context, userID int64) (profile.Profile, error)
	List(ctx context.Context, limit, offset int) ([]profile.Profile, error)
	Update(ctx context.Context, id int64, upd profile.Update) error
	Delete(ctx context.Context, id int64) error
	// RecomputeAverage stores the mean of the subject's ratings (0 when
	// none remain) and returns it.
	RecomputeAverage(ctx context.Context, subjectID int64) (float64, error)
}

type JobRepository interface {
	Create(ctx context.Context, j job.Job) (job.Job, error)
	GetByID(ctx context.Context, id int64) (job.Job, error)
	// GetForUpdate reads the job and locks its row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id int64) (job.Job, error)
	List(ctx context.Context, f job.Filter) ([]job.Job, error)
	ListByIDs(ctx context.Context, ids []int64) ([]job.Job, error)
	ListForAdmin(ctx context.Context, f job.Filter) ([]job.AdminRow, int, error)
	Update(ctx context.Context, id int64, upd job.Update) error
	Delete(ctx context.Context, id int64) error
}

type RequestRepository interface {
	Create(ctx context.Context, r request.Request) (request.Request, error)
	GetByID(ctx context.Context, id int64) (request.Request, error)
	List(ctx context.Context, f request.Filter) ([]request.Request, error)
	FindActive(ctx context.Context, senderID, jobID int64) (request.Request, error)
	CountAccepted(ctx context.Context, jobID int64) (int, error)
	Update(ctx context.Context, id int64, upd request.Update) error
	Delete(ctx context.Context, id int64) error
}

type RatingRepository interface {
	Create(ctx context.Context, r rating.Rating) (rating.Rating, error)
	GetByID(ctx context.Context, id int64) (rating.Rating, error)
	FindByKey(ctx context.Context, key rating.Key) (rating.Rating, error)
	List(ctx context.Context, f rating.Filter) ([]rating.Rating, error)
	Update(ctx context.Context, id int64, upd rating.Update) error
	Delete(ctx context.Context, id int64) error
	DeleteByJob(ctx context.Context, jobID int64) (int64, error)
	SubjectsByJob(ctx context.Context, jobID int64) ([]int64, error)
	// SubjectsAffectedByProfile lists subjects whose ratings disappear when
	// the profile is removed: ratings it gave and ratings on its jobs.
	SubjectsAffectedByProfile(ctx context.Context, profileID int64) ([]int64, error)
	CountHiredFiveStar(ctx context.Context, subjectID int64) (int, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n notification.Notification) (notification.Notification, error)
	GetByID(ctx context.Context, id int64) (notification.Notification, error)
	List(ctx context.Context, f notification.Filter) ([]notification.Notification, error)
	CountUnread(ctx context.Context, receiverID int64) (int, error)
	Update(ctx context.Context, id int64, upd notification.Update) error
	MarkAllRead(ctx context.Context, receiverID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type EmployeeRepository interface {
	Create(ctx context.Context, e employee.Employee) (employee.Employee, error)
	// Hire upserts on (profile_id, job_id) so a re-accepted worker keeps one
	// record.
	Hire(ctx context.Context, e employee.Employee) (employee.Employee, error)
	GetByID(ctx context.Context, id int64) (employee.Employee, error)
	List(ctx context.Context, f employee.Filter) ([]employee.Employee, error)
	Update(ctx context.Context, id int64, upd employee.Update) error
	Delete(ctx context.Context, id int64) error
}

type ChatRepository interface {
	// GetOrCreate returns the chat of the pair, inserting it when absent.
	GetOrCreate(ctx context.Context, profileA, profileB int64) (chat.Chat, bool, error)
	GetByID(ctx context.Context, id int64) (chat.Chat, error)
	ListForProfile(ctx context.Context, profileID int64, limit, offset int) ([]chat.Summary, error)
	Touch(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error

	CreateMessage(ctx context.Context, m chat.Message) (chat.Message, error)
	GetMessage(ctx context.Context, id int64) (chat.Message, error)
	ListMessages(ctx context.Context, chatID int64, limit, offset int) ([]chat.Message, error)
	UpdateMessage(ctx context.Context, id int64, upd chat.MessageUpdate) error
	DeleteMessage(ctx context.Context, id int64) error
	MarkRead(ctx context.Context, chatID, receiverID int64) (int64, error)
}

type StatsRepository interface {
	Totals(ctx context.Context) (stats.Totals, error)
	UsersCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	JobsCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}

// Store groups the repositories. Repositories obtained inside WithTx share
// one transaction.
type Store interface {
	Users() UserRepository
	Profiles() ProfileRepository
	Jobs() JobRepository
	Requests() RequestRepository
	Ratings() RatingRepository
	Notifications() NotificationRepository
	Employees() EmployeeRepository
	Chats() ChatRepository
	Stats() StatsRepository

	WithTx(ctx context.Context, fn func(Store) error) error
}

type PostgresStore struct {
	db database.DB
	q  database.Querier
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

func (s *PostgresStore) Users() UserRepository { return NewPostgresUserRepository(s.q) }
func (s *PostgresStore) Profiles() ProfileRepository {
	return NewPostgresProfileRepository(s.q)
}
func (s *PostgresStore) Jobs() JobRepository         { return NewPostgresJobRepository(s.q) }
func (s *PostgresStore) Requests() RequestRepository { return NewPostgresRequestRepository(s.q) }
func (s *PostgresStore) Ratings() RatingRepository   { return NewPostgresRatingRepository(s.q) }
func (s *PostgresStore) Notifications() NotificationRepository {
	return NewPostgresNotificationRepository(s.q)
}
func (s *PostgresStore) Employees() EmployeeRepository {
	return NewPostgresEmployeeRepository(s.q)
}
func (s *PostgresStore) Chats() ChatRepository  { return NewPostgresChatRepository(s.q) }
func (s *PostgresStore) Stats() StatsRepository { return NewPostgresStatsRepository(s.q) }

func (s *PostgresStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if _, inTx := s.q.(database.Tx); inTx {
		return fn(s)
	}
	return database.WithTx(ctx, s.db, func(tx database.Tx) error {
		return fn(&PostgresStore{db: s.db, q: tx})
	})
}
