package profile

import "time"

type Profile struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Description   string    `json:"description"`
	ImageURL      *string   `json:"image_url,omitempty"`
	Location      *string   `json:"location,omitempty"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int       `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Update lists the profile columns the owner may change. The rating
// aggregate is maintained by the rating workflow and is not part of it.
type Update struct {
	Description *string
	ImageURL    *string
	Location    *string
}

func (u Update) IsEmpty() bool {
	return u.Description == nil && u.ImageURL == nil && u.Location == nil
}
