// Package photo выдаёт ссылки для загрузки фотографии профиля в S3
// и сохраняет ссылку на загруженный объект в анкете.
package photo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/tutora24/internal/config"
	"github.com/magabrotheeeer/tutora24/internal/services/guard"
	"github.com/magabrotheeeer/tutora24/internal/storage/repository"
)

// ErrForeignKey возвращается, если ключ объекта не принадлежит пользователю.
var ErrForeignKey = errors.New("photo key does not belong to user")

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// ProfileStore сохраняет ссылку на фото.
type ProfileStore interface {
	UpdatePhotoURL(ctx context.Context, userID, url string) error
}

// Upload - подписанная ссылка для PUT‑запроса.
type Upload struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service работает с фотографиями профиля.
type Service struct {
	log      *slog.Logger
	profiles ProfileStore
	cfg      config.S3
	now      func() time.Time
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, profiles ProfileStore, cfg config.S3) *Service {
	return &Service{
		log:      log,
		profiles: profiles,
		cfg:      cfg,
		now:      time.Now,
	}
}

// KeyPrefix - префикс ключей объектов пользователя.
func KeyPrefix(userID string) string {
	return "tutors/" + userID + "/"
}

func (s *Service) newKey(userID string) string {
	d := s.now().UTC()
	return fmt.Sprintf("%s%d/%02d/%02d/%s", KeyPrefix(userID), d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Service) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})
	return newS3PresignClient(client), nil
}

// PresignUpload возвращает ссылку, по которой клиент загружает фото напрямую в S3.
func (s *Service) PresignUpload(ctx context.Context, userID string) (Upload, error) {
	const op = "photo.PresignUpload"

	pc, err := s.presignClient(ctx)
	if err != nil {
		return Upload{}, fmt.Errorf("%s: %w", op, err)
	}

	key := s.newKey(userID)
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.cfg.PresignTTL))
	if err != nil {
		return Upload{}, fmt.Errorf("%s: %w", op, err)
	}

	return Upload{
		URL:       req.URL,
		Key:       key,
		ExpiresAt: s.now().Add(s.cfg.PresignTTL),
	}, nil
}

// AttachPhoto сохраняет в анкете ссылку на загруженный объект.
func (s *Service) AttachPhoto(ctx context.Context, userID, key string) (string, error) {
	const op = "photo.AttachPhoto"

	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, KeyPrefix(userID)) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%s: %w", op, ErrForeignKey)
	}

	url := s.ObjectURL(key)
	if err := s.profiles.UpdatePhotoURL(ctx, userID, url); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, guard.ErrProfileNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("profile photo attached", slog.String("user_id", userID), slog.String("key", key))
	return url, nil
}

// ObjectURL возвращает адрес объекта в path‑style.
func (s *Service) ObjectURL(key string) string {
	return strings.TrimRight(s.cfg.BaseEndpoint, "/") + "/" + s.cfg.Bucket + "/" + key
}
