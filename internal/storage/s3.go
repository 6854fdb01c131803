package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/topclip/tikfetch/internal/config"
)

const s3KeyPrefix = "downloads/"

// S3 stores artifacts in an S3 bucket and serves them from the bucket's
// public URL.
type S3 struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3 creates an S3 backend from config.
func NewS3(ctx context.Context, cfg *config.S3Config) (*S3, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &S3{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// Store uploads the temp file as downloads/<filename> and removes the
// temp file on success.
func (s *S3) Store(ctx context.Context, tempPath, filename string) (string, error) {
	file, err := os.Open(tempPath)
	if err != nil {
		return "", fmt.Errorf("failed to open temp file: %w", err)
	}
	defer file.Close()

	key := s3KeyPrefix + filename
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentTypeFor(filename)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload artifact to S3: %w", err)
	}

	file.Close()
	if err := os.Remove(tempPath); err != nil {
		return "", fmt.Errorf("failed to remove temp file: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// Remove deletes the stored artifact from the bucket.
func (s *S3) Remove(ctx context.Context, filename string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3KeyPrefix + filename),
	})
	if err != nil {
		return fmt.Errorf("failed to delete artifact from S3: %w", err)
	}
	return nil
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".mp4"):
		return "video/mp4"
	case strings.HasSuffix(filename, ".webm"):
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
