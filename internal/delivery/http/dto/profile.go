package dto

type CreateProfileRequest struct {
	Description string  `json:"description" validate:"max=2000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
}

type UpdateProfileRequest struct {
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
}
