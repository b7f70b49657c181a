package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"Chirp/config"
	"Chirp/utils/fileformat"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const avatarPrefix = "avatars/"

// AvatarStore persists uploaded profile pictures and returns their public URL.
type AvatarStore interface {
	PutAvatar(ctx context.Context, filename string, body []byte, contentType string) (string, error)
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3AvatarStore struct {
	client putObjectAPI
	bucket string
	region string
}

// NewS3AvatarStore uses the default AWS credential chain.
func NewS3AvatarStore(ctx context.Context, cfg config.S3) (*S3AvatarStore, error) {
	// Strip any accidental path suffix.
	bucket := strings.SplitN(strings.TrimSpace(cfg.Bucket), "/", 2)[0]
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is empty or invalid: %q", cfg.Bucket)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return &S3AvatarStore{client: client, bucket: bucket, region: cfg.Region}, nil
}

func (s *S3AvatarStore) PutAvatar(ctx context.Context, filename string, body []byte, contentType string) (string, error) {
	key := avatarPrefix + fileformat.UniqueFormat(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload avatar %s: %w", key, err)
	}
	return s.publicURL(key), nil
}

// publicURL is the virtual-host style address of key.
func (s *S3AvatarStore) publicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
