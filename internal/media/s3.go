package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"vidtube/internal/config"
)

// S3Uploader stores media files in an S3-compatible bucket (MinIO in development).
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

var _ Uploader = (*S3Uploader)(nil)

// NewS3Uploader builds an uploader from static credentials and a base endpoint.
func NewS3Uploader(ctx context.Context, cfg *config.Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &S3Uploader{
		client:        client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
	}, nil
}

// Upload writes the file under a date-bucketed key and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, kind, filename, contentType string, body io.Reader) (string, error) {
	if u == nil || u.client == nil {
		return "", ErrUnavailable
	}

	key := storageKey(kind, strings.ToLower(filepath.Ext(filename)))
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return fmt.Sprintf("%s/%s/%s", u.publicBaseURL, u.bucket, key), nil
}
