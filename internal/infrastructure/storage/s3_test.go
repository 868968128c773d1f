package storage

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"gig-market/internal/config"

	"github.com/stretchr/testify/require"
)

func TestPublicBaseURL(t *testing.T) {
	require.Equal(t, "https://media.s3.eu-west-1.amazonaws.com",
		PublicBaseURL(config.S3Config{Bucket: "media", Region: "eu-west-1"}))
	require.Equal(t, "http://localhost:9000/media",
		PublicBaseURL(config.S3Config{Bucket: "media", Endpoint: "http://localhost:9000/", UsePathStyle: true}))
	require.Equal(t, "https://media.storage.example.com",
		PublicBaseURL(config.S3Config{Bucket: "media", Endpoint: "https://storage.example.com"}))
}

func TestS3Presigner_PresignPut(t *testing.T) {
	p, err := NewS3Presigner(context.Background(), config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		Bucket:          "media",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
		PresignExpiry:   5 * time.Minute,
	})
	require.NoError(t, err)

	up, err := p.PresignPut(context.Background(), "profile_image/1/a.png", "image/png")
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, up.Method)
	require.True(t, strings.HasPrefix(up.UploadURL, "http://localhost:9000/media/profile_image/1/a.png?"))
	require.Contains(t, up.UploadURL, "X-Amz-Signature=")
	require.Equal(t, "http://localhost:9000/media/profile_image/1/a.png", up.PublicURL)
}

func TestNewS3Presigner_RequiresBucket(t *testing.T) {
	_, err := NewS3Presigner(context.Background(), config.S3Config{Region: "us-east-1"})
	require.Error(t, err)
}
