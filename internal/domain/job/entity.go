package job

import "time"

const (
	StateOpen       = "open"
	StateInProgress = "in_progress"
	StateCompleted  = "completed"
	StateCancelled  = "cancelled"
)

type Job struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profile_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	State       string    `json:"state"`
	PayRate     float64   `json:"pay_rate"`
	NumWorkers  int       `json:"num_workers"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Update struct {
	Title       *string
	Description *string
	Category    *string
	State       *string
	PayRate     *float64
	NumWorkers  *int
	Location    *string
}

func (u Update) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil && u.State == nil &&
		u.PayRate == nil && u.NumWorkers == nil && u.Location == nil
}

func ValidState(s string) bool {
	switch s {
	case StateOpen, StateInProgress, StateCompleted, StateCancelled:
		return true
	}
	return false
}

type Filter struct {
	ProfileID *int64
	Category  string
	State     string
	Search    string
	SortBy    string
	Desc      bool
	Limit     int
	Offset    int
}

// AdminRow is a job listing row enriched with its request count.
type AdminRow struct {
	Job
	RequestCount int `json:"request_count"`
}
