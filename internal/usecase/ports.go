package usecase

import (
	"context"
	"time"
)

// Cache is the JSON cache used for expensive read models.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher delivers domain events to out-of-process consumers.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// Pusher delivers real-time events to websocket rooms.
type Pusher interface {
	Broadcast(room, event string, payload any)
}

// Classification is the answer of a text classifier.
type Classification struct {
	Label      string
	Confidence float64
}

// TextClassifier labels free text. Sentiment and toxicity services share it.
type TextClassifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// Recommender ranks job ids for a profile.
type Recommender interface {
	Recommend(ctx context.Context, profileID int64, limit int) ([]int64, error)
}

// PresignedUpload tells a client where to PUT an object and where it can
// be read afterwards.
type PresignedUpload struct {
	UploadURL string    `json:"upload_url"`
	Method    string    `json:"method"`
	Key       string    `json:"key"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ObjectStorage issues presigned uploads for object keys.
type ObjectStorage interface {
	PresignPut(ctx context.Context, key, contentType string) (PresignedUpload, error)
}
