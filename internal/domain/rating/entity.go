package rating

import "time"

const (
	MinValue = 1
	MaxValue = 5

	// TopPerformerThreshold is the number of five-star ratings from hired
	// raters a profile needs for the top performer badge.
	TopPerformerThreshold = 5
)

type Rating struct {
	ID             int64     `json:"id"`
	RaterID        int64     `json:"rater_id"`
	SubjectID      int64     `json:"subject_id"`
	JobID          *int64    `json:"job_id,omitempty"`
	Value          int       `json:"value"`
	Feedback       string    `json:"feedback"`
	SentimentLabel *string   `json:"sentiment_label,omitempty"`
	SentimentScore *float64  `json:"sentiment_score,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Update struct {
	Value          *int
	Feedback       *string
	SentimentLabel *string
	SentimentScore *float64
}

func (u Update) IsEmpty() bool {
	return u.Value == nil && u.Feedback == nil && u.SentimentLabel == nil && u.SentimentScore == nil
}

func ValidValue(v int) bool {
	return v >= MinValue && v <= MaxValue
}

// Key identifies the rating slot of a (rater, subject, job) tuple.
type Key struct {
	RaterID   int64
	SubjectID int64
	JobID     *int64
}

// SameJob compares job ids treating a missing job as its own value.
func SameJob(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type Badge struct {
	ProfileID     int64 `json:"profile_id"`
	FiveStarHired int   `json:"five_star_hired_count"`
	Threshold     int   `json:"threshold"`
	TopPerformer  bool  `json:"top_performer"`
}

type Filter struct {
	RaterID   *int64
	SubjectID *int64
	JobID     *int64
	Limit     int
	Offset    int
}
