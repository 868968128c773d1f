package dto

type CreateRequestRequest struct {
	JobID     int64   `json:"job_id" validate:"required,gt=0"`
	BidAmount float64 `json:"bid_amount" validate:"gte=0"`
	Message   string  `json:"message" validate:"max=2000"`
}

type UpdateRequestRequest struct {
	Status    *string  `json:"status" validate:"omitempty,oneof=pending accepted rejected cancelled"`
	BidAmount *float64 `json:"bid_amount" validate:"omitempty,gte=0"`
	Message   *string  `json:"message" validate:"omitempty,max=2000"`
}
