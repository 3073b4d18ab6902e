package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	pkgconfig "github.com/bean-harbor/shop-services/pkg/config"
)

// ObjectStore uploads captured images and hands out time-limited
// download links.
type ObjectStore interface {
	UploadAndPresign(ctx context.Context, objectName string, data []byte) (string, error)
}

type S3Store struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	presignTTL time.Duration
	logger     *zap.Logger
}

func NewS3Client(cfg *pkgconfig.CaptureConfig) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

func NewS3Store(client *s3.Client, bucket string, presignTTL time.Duration, logger *zap.Logger) *S3Store {
	return &S3Store{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     bucket,
		presignTTL: presignTTL,
		logger:     logger,
	}
}

// UploadAndPresign puts the object and returns a presigned GET URL for it.
func (s *S3Store) UploadAndPresign(ctx context.Context, objectName string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	presigned, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectName),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign object: %w", err)
	}

	s.logger.Info("Object uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", objectName),
		zap.Duration("presign_ttl", s.presignTTL))

	return presigned.URL, nil
}
