package photo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/tutora24/internal/config"
	"github.com/magabrotheeeer/tutora24/internal/services/guard"
	"github.com/magabrotheeeer/tutora24/internal/storage/repository"
)

type ProfileStoreMock struct {
	mock.Mock
}

func (m *ProfileStoreMock) UpdatePhotoURL(ctx context.Context, userID, url string) error {
	return m.Called(ctx, userID, url).Error(0)
}

func newTestService(store ProfileStore) *Service {
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)), store, config.S3{
		BaseEndpoint: "http://127.0.0.1:9000",
		Region:       "us-east-1",
		Bucket:       "tutor-photos",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		PresignTTL:   15 * time.Minute,
	})
	svc.now = func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestPresignUpload(t *testing.T) {
	svc := newTestService(new(ProfileStoreMock))

	up, err := svc.PresignUpload(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.Key, "tutors/user-1/2026/03/09/"), up.Key)
	assert.True(t, strings.HasPrefix(up.URL, "http://127.0.0.1:9000/tutor-photos/tutors/user-1/"), up.URL)
	assert.Contains(t, up.URL, "X-Amz-Signature=")
	assert.Contains(t, up.URL, "X-Amz-Expires=900")
	assert.Equal(t, svc.now().Add(15*time.Minute), up.ExpiresAt)

	other, err := svc.PresignUpload(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, up.Key, other.Key)
}

func TestPresignUpload_Errors(t *testing.T) {
	origLoad, origPresign := loadDefaultAWSConfig, presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		presignPutObject = origPresign
	})

	t.Run("config load fails", func(t *testing.T) {
		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("load-fail")
		}
		defer func() { loadDefaultAWSConfig = origLoad }()

		_, err := newTestService(new(ProfileStoreMock)).PresignUpload(context.Background(), "user-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load-fail")
	})

	t.Run("presign fails", func(t *testing.T) {
		presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			return nil, errors.New("presign-put-fail")
		}
		defer func() { presignPutObject = origPresign }()

		_, err := newTestService(new(ProfileStoreMock)).PresignUpload(context.Background(), "user-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "photo.PresignUpload: presign-put-fail")
	})
}

func TestAttachPhoto(t *testing.T) {
	const key = "tutors/user-1/2026/03/09/abc"
	wantURL := "http://127.0.0.1:9000/tutor-photos/" + key

	tests := []struct {
		name    string
		key     string
		repoErr error
		setup   bool
		wantErr error
	}{
		{name: "stores url", key: key, setup: true},
		{name: "key of another user", key: "tutors/user-2/2026/03/09/abc", wantErr: ErrForeignKey},
		{name: "path traversal", key: "tutors/user-1/../user-2/abc", wantErr: ErrForeignKey},
		{name: "empty key", key: "", wantErr: ErrForeignKey},
		{name: "no profile", key: key, setup: true, repoErr: repository.ErrNotFound, wantErr: guard.ErrProfileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(ProfileStoreMock)
			if tt.setup {
				store.On("UpdatePhotoURL", mock.Anything, "user-1", wantURL).Return(tt.repoErr).Once()
			}
			svc := newTestService(store)

			url, err := svc.AttachPhoto(context.Background(), "user-1", tt.key)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, wantURL, url)
			}
			store.AssertExpectations(t)
		})
	}
}
