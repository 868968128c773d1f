package dto

type CreateJobRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Category    string  `json:"category" validate:"max=100"`
	PayRate     float64 `json:"pay_rate" validate:"gte=0"`
	NumWorkers  int     `json:"num_workers" validate:"gte=0"`
	Location    string  `json:"location" validate:"max=200"`
	State       string  `json:"state" validate:"omitempty,oneof=open in_progress completed cancelled"`
}

type UpdateJobRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	State       *string  `json:"state" validate:"omitempty,oneof=open in_progress completed cancelled"`
	PayRate     *float64 `json:"pay_rate" validate:"omitempty,gte=0"`
	NumWorkers  *int     `json:"num_workers" validate:"omitempty,gte=1"`
	Location    *string  `json:"location" validate:"omitempty,max=200"`
}
