package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gig-market/internal/domain/user"

	"github.com/stretchr/testify/require"
)

type stubStorage struct{}

func (stubStorage) PresignPut(_ context.Context, key, _ string) (PresignedUpload, error) {
	return PresignedUpload{
		UploadURL: "https://s3.test/put/" + key,
		Method:    "PUT",
		Key:       key,
		PublicURL: "https://cdn.test/" + key,
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil
}

func TestUploadUsecase_Presign(t *testing.T) {
	f := newFixture(t)
	a, p := f.member(user.RoleUser)
	uc := NewUploadUsecase(f.store, stubStorage{})

	got, err := uc.Presign(f.ctx, a, UploadProfileImage, "IMAGE/PNG")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got.Key, "profile_image/"))
	require.True(t, strings.HasSuffix(got.Key, ".png"))
	require.Contains(t, got.Key, fmt.Sprintf("/%d/", p.ID))

	_, err = uc.Presign(f.ctx, a, "avatar", "image/png")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Presign(f.ctx, a, UploadProfileImage, "application/pdf")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewUploadUsecase(f.store, nil).Presign(f.ctx, a, UploadAttachment, "application/pdf")
	require.ErrorIs(t, err, ErrInternal)
}
