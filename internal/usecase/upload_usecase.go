package usecase

import (
	"context"
	"fmt"
	"strings"

	"gig-market/internal/repository"

	"github.com/google/uuid"
)

const (
	UploadProfileImage = "profile_image"
	UploadAttachment   = "attachment"
)

var uploadTypes = map[string]map[string]string{
	UploadProfileImage: {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	},
	UploadAttachment: {
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"image/webp":      ".webp",
		"application/pdf": ".pdf",
	},
}

type UploadUsecase interface {
	Presign(ctx context.Context, a Actor, kind, contentType string) (PresignedUpload, error)
}

type Upload struct {
	store   repository.Store
	storage ObjectStorage
}

func NewUploadUsecase(store repository.Store, storage ObjectStorage) *Upload {
	return &Upload{store: store, storage: storage}
}

// Presign reserves a key under <kind>/<profile id>/ and returns a presigned
// PUT for it.
func (u *Upload) Presign(ctx context.Context, a Actor, kind, contentType string) (PresignedUpload, error) {
	types, ok := uploadTypes[kind]
	if !ok {
		return PresignedUpload{}, invalid("kind must be %s or %s", UploadProfileImage, UploadAttachment)
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := types[contentType]
	if !ok {
		return PresignedUpload{}, invalid("content type %q is not accepted for %s", contentType, kind)
	}
	if u.storage == nil {
		return PresignedUpload{}, fmt.Errorf("%w: object storage is not configured", ErrInternal)
	}

	p, err := callerProfile(ctx, u.store, a)
	if err != nil {
		return PresignedUpload{}, err
	}
	key := fmt.Sprintf("%s/%d/%s%s", kind, p.ID, uuid.NewString(), ext)
	return u.storage.PresignPut(ctx, key, contentType)
}
