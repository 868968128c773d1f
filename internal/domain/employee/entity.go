package employee

import "time"

const (
	StatusActive     = "active"
	StatusFinished   = "finished"
	StatusTerminated = "terminated"
)

// Employee records a profile hired onto a job.
type Employee struct {
	ID        int64     `json:"id"`
	ProfileID int64     `json:"profile_id"`
	JobID     int64     `json:"job_id"`
	RequestID *int64    `json:"request_id,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Update struct {
	Status *string
}

func (u Update) IsEmpty() bool {
	return u.Status == nil
}

func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusFinished, StatusTerminated:
		return true
	}
	return false
}

type Filter struct {
	ProfileID *int64
	JobID     *int64
	Limit     int
	Offset    int
}
