package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/vango-dev/pageroute/pkg/router"
)

// ErrTooLarge is returned when an object exceeds the configured size limit.
var ErrTooLarge = errors.New("source: object too large")

// S3API is the subset of the S3 client used by S3.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 serves content from objects in an S3 bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	src := source.NewS3(s3.NewFromConfig(cfg), "my-site", "templates/")
type S3 struct {
	client  S3API
	bucket  string
	prefix  string
	maxSize int64
}

// NewS3 creates a source reading keys under prefix in bucket.
func NewS3(client S3API, bucket, prefix string) *S3 {
	return &S3{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		maxSize: 4 << 20,
	}
}

// WithMaxSize limits object size in bytes (0 = no limit). Default 4 MiB.
func (s *S3) WithMaxSize(n int64) *S3 {
	s.maxSize = n
	return s
}

// Open fetches the object prefix+key.
func (s *S3) Open(ctx context.Context, key string) (*router.Content, error) {
	objectKey := s.prefix + strings.TrimPrefix(key, "/")

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 get %s/%s: %w", s.bucket, objectKey, err)
	}
	defer out.Body.Close()

	var r io.Reader = out.Body
	if s.maxSize > 0 {
		r = io.LimitReader(out.Body, s.maxSize+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s/%s: %w", s.bucket, objectKey, err)
	}
	if s.maxSize > 0 && int64(len(body)) > s.maxSize {
		return nil, ErrTooLarge
	}

	return &router.Content{Key: key, Body: body}, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
