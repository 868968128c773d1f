package dto

type CreateEmployeeRequest struct {
	ProfileID int64  `json:"profile_id" validate:"required,gt=0"`
	JobID     int64  `json:"job_id" validate:"required,gt=0"`
	Status    string `json:"status" validate:"omitempty,oneof=active finished terminated"`
}

type UpdateEmployeeRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=active finished terminated"`
}
