package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

type objectClient interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store uploads photos to an S3-compatible bucket (AWS, R2, MinIO).
type S3Store struct {
	client    objectClient
	bucket    string
	publicURL string
}

func NewS3Store(cfg S3Config) *S3Store {
	opts := s3.Options{
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region:       cfg.Region,
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return &S3Store{
		client:    s3.New(opts),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
}

func (s *S3Store) Put(ctx context.Context, upload *Upload) (*models.ImageRef, error) {
	key := fmt.Sprintf("reports/%s%s", uuid.New().String(), upload.Extension())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(upload.Data),
		ContentType: aws.String(upload.ContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	return &models.ImageRef{
		URL:         fmt.Sprintf("%s/%s", s.publicURL, key),
		ContentType: upload.ContentType,
		Size:        upload.Size(),
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, ref *models.ImageRef) error {
	if ref == nil {
		return nil
	}
	key := strings.TrimPrefix(ref.URL, s.publicURL+"/")
	if key == ref.URL {
		return fmt.Errorf("image %q is not in bucket %s", ref.URL, s.bucket)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
