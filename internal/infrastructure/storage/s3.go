package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gig-market/internal/config"
	"gig-market/internal/usecase"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Presigner issues presigned PUT URLs for an S3 compatible bucket.
type S3Presigner struct {
	presign   *s3.PresignClient
	bucket    string
	publicURL string
	expiry    time.Duration
	now       func() time.Time
}

func NewS3Presigner(ctx context.Context, cfg config.S3Config) (*S3Presigner, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3 bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &S3Presigner{
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		publicURL: PublicBaseURL(cfg),
		expiry:    expiry,
		now:       time.Now,
	}, nil
}

// PublicBaseURL is the prefix under which uploaded keys are readable.
func PublicBaseURL(cfg config.S3Config) string {
	if cfg.Endpoint != "" {
		base := strings.TrimRight(cfg.Endpoint, "/")
		if cfg.UsePathStyle {
			return base + "/" + cfg.Bucket
		}
		if u, err := url.Parse(base); err == nil && u.Host != "" {
			u.Host = cfg.Bucket + "." + u.Host
			return u.String()
		}
		return base + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string) (usecase.PresignedUpload, error) {
	req, err := p.presign.PresignPutObject(ctx,
		&s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(key),
			ContentType: aws.String(contentType),
		},
		func(o *s3.PresignOptions) {
			o.Expires = p.expiry
		},
	)
	if err != nil {
		return usecase.PresignedUpload{}, err
	}

	return usecase.PresignedUpload{
		UploadURL: req.URL,
		Method:    req.Method,
		Key:       key,
		PublicURL: p.publicURL + "/" + key,
		ExpiresAt: p.now().Add(p.expiry).UTC(),
	}, nil
}

var _ usecase.ObjectStorage = (*S3Presigner)(nil)
