package dto

type CreateRatingRequest struct {
	SubjectID int64  `json:"subject_id" validate:"required,gt=0"`
	JobID     *int64 `json:"job_id" validate:"omitempty,gt=0"`
	Value     int    `json:"value" validate:"required,min=1,max=5"`
	Feedback  string `json:"feedback" validate:"max=2000"`
}

type UpdateRatingRequest struct {
	Value    *int    `json:"value" validate:"omitempty,min=1,max=5"`
	Feedback *string `json:"feedback" validate:"omitempty,max=2000"`
}
