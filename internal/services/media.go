package services

import (
	"context"
	"fmt"
	"time"

	"github.com/samarpan-samaj/community-backend/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const mediaCallTimeout = 10 * time.Second

// MediaStore is the media-host surface the services need. All deletes
// are best-effort from the caller's point of view.
type MediaStore interface {
	Delete(ctx context.Context, key string) error
	DeleteBatch(ctx context.Context, keys []string) error
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	PublicURL(key string) string
}

// S3MediaStore hosts media in an S3 bucket
type S3MediaStore struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3MediaStore creates a media store backed by S3
func NewS3MediaStore(region, bucket, accessKey, secretKey, endpoint string) (*S3MediaStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3MediaStore{client: client, bucket: bucket, region: region}, nil
}

// Delete removes a single object
func (s *S3MediaStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, mediaCallTimeout)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", models.ErrExternalUnavailable, key, err)
	}
	return nil
}

// DeleteBatch removes a set of objects in one call. An empty set is a
// no-op and makes no request.
func (s *S3MediaStore) DeleteBatch(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, mediaCallTimeout)
	defer cancel()

	objects := make([]s3types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, s3types.ObjectIdentifier{Key: aws.String(key)})
	}

	_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: batch delete of %d objects: %v", models.ErrExternalUnavailable, len(keys), err)
	}
	return nil
}

// PresignUpload generates a pre-signed PUT URL for a direct client upload
func (s *S3MediaStore) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 5 * time.Minute
	})
	if err != nil {
		return "", fmt.Errorf("%w: presign upload: %v", models.ErrExternalUnavailable, err)
	}
	return request.URL, nil
}

// PublicURL returns the canonical object URL for a key
func (s *S3MediaStore) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
