package dto

type CreateNotificationRequest struct {
	ReceiverID int64  `json:"receiver_id" validate:"required,gt=0"`
	Type       string `json:"type" validate:"max=50"`
	Message    string `json:"message" validate:"required,max=1000"`
}

type UpdateNotificationRequest struct {
	IsRead *bool `json:"is_read"`
}
