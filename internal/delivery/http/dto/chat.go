package dto

type OpenChatRequest struct {
	ProfileID int64 `json:"profile_id" validate:"required,gt=0"`
}

type SendMessageRequest struct {
	ChatID        int64   `json:"chat_id" validate:"omitempty,gt=0"`
	ReceiverID    int64   `json:"receiver_id" validate:"omitempty,gt=0"`
	Content       string  `json:"content" validate:"max=4000"`
	AttachmentURL *string `json:"attachment_url" validate:"omitempty,url"`
}

type EditMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

type ReactionRequest struct {
	Reaction string `json:"reaction" validate:"omitempty,oneof=like love laugh wow sad angry"`
}

type OpenChatResponse struct {
	Chat    any  `json:"chat"`
	Created bool `json:"created"`
}
