package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/goroads/kerbside/core/upload"
)

// BlobStore implements upload.BlobStore on a MinIO (or any S3
// compatible) bucket. Failures from Put come back pre-classified into
// the pipeline's error taxonomy.
type BlobStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewBlobStore connects to the endpoint and ensures the photo bucket
// exists.
func NewBlobStore(ctx context.Context, cfg Config) (*BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
	}

	expiry := time.Duration(cfg.PresignExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}

	return &BlobStore{
		client: client,
		bucket: cfg.Bucket,
		expiry: expiry,
	}, nil
}

func (s *BlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string, metadata map[string]string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// URL returns a presigned, durable reference URL for a stored object.
func (s *BlobStore) URL(ctx context.Context, key string) (string, error) {
	signed, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, url.Values{})
	if err != nil {
		return "", classify(err)
	}
	return signed.String(), nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// Metadata resolves a reference URL back to its object and returns the
// stored metadata.
func (s *BlobStore) Metadata(ctx context.Context, referenceURL string) (upload.ObjectMeta, error) {
	key, err := s.keyFromURL(referenceURL)
	if err != nil {
		return upload.ObjectMeta{}, err
	}

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return upload.ObjectMeta{}, err
	}

	return upload.ObjectMeta{
		Key:          info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
		UserMetadata: info.UserMetadata,
	}, nil
}

// keyFromURL strips the scheme, host, bucket prefix and query string off
// a reference URL, leaving the object key.
func (s *BlobStore) keyFromURL(referenceURL string) (string, error) {
	parsed, err := url.Parse(referenceURL)
	if err != nil {
		return "", fmt.Errorf("parse reference URL: %w", err)
	}

	key := strings.TrimPrefix(parsed.Path, "/")
	key = strings.TrimPrefix(key, s.bucket+"/")
	if key == "" {
		return "", fmt.Errorf("reference URL %q carries no object key", referenceURL)
	}
	return key, nil
}

// classify maps S3 error codes onto the pipeline's error taxonomy.
// Anything without a recognizable code is left for the pipeline's
// message-based fallback.
func classify(err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return &upload.Error{Kind: upload.KindAuthorization, Err: err}
	case "BadDigest", "InvalidDigest", "XAmzContentSHA256Mismatch":
		return &upload.Error{Kind: upload.KindIntegrity, Err: err}
	case "RequestTimeout", "SlowDown":
		return &upload.Error{Kind: upload.KindTransport, Err: err}
	}
	return err
}
