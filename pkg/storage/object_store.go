package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Options configures an S3-compatible bucket (Supabase Storage, R2, S3, MinIO).
type Options struct {
	Endpoint      string
	Region        string
	AccessKeyID   string
	SecretKey     string
	Bucket        string
	PublicURL     string
	UploadTimeout time.Duration
}

// ObjectStore holds the public assets of the showcase: thumbnails, about-page images.
type ObjectStore struct {
	client        *s3.Client
	bucketName    string
	publicURL     string
	uploadTimeout time.Duration
}

func NewObjectStore(ctx context.Context, opts Options) (*ObjectStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretKey, "")),
		config.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})

	return &ObjectStore{
		client:        client,
		bucketName:    opts.Bucket,
		publicURL:     strings.TrimSuffix(opts.PublicURL, "/"),
		uploadTimeout: opts.UploadTimeout,
	}, nil
}

// UploadBuffer stores data under a fresh key and returns its public URL.
func (s *ObjectStore) UploadBuffer(ctx context.Context, data []byte, contentType string) (string, error) {
	key := objectKey(contentType)

	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	_, err := s.client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return s.publicURL + "/" + key, nil
}

// DeleteFile deletes an object by the public URL UploadBuffer returned.
func (s *ObjectStore) DeleteFile(ctx context.Context, fileURL string) error {
	key, err := keyFromURL(s.publicURL, fileURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func objectKey(contentType string) string {
	ext := ".bin"
	switch contentType {
	case "image/webp":
		ext = ".webp"
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	}
	return "uploads/" + uuid.NewString() + ext
}

// keyFromURL refuses URLs outside the bucket's public prefix.
func keyFromURL(publicURL, fileURL string) (string, error) {
	if !strings.HasPrefix(fileURL, publicURL+"/") {
		return "", fmt.Errorf("invalid file URL: domain mismatch")
	}
	key := strings.TrimPrefix(fileURL, publicURL+"/")
	if key == "" {
		return "", fmt.Errorf("invalid file key derived from URL")
	}
	return key, nil
}
