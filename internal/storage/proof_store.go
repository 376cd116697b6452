// Package storage persists payment-proof images in an S3-compatible bucket.
// A proof is uploaded before the subscription row referencing it is inserted,
// so a stored row always points at an existing object.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Config holds the bucket connection settings.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string // non-empty for S3-compatible providers
	Bucket          string
	PublicBaseURL   string // base of the public object URL
}

// ProofStore uploads payment-proof images and hands back their public URLs.
type ProofStore struct {
	client *s3.Client
	cfg    Config
}

// NewProofStore creates the S3 client and verifies the bucket is reachable.
func NewProofStore(ctx context.Context, cfg Config) (*ProofStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	ps := &ProofStore{client: client, cfg: cfg}

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		return nil, fmt.Errorf("bucket %s not accessible: %w", cfg.Bucket, err)
	}

	log.Printf("[ProofStore] Connected to bucket %s", cfg.Bucket)
	return ps, nil
}

// Upload stores a proof image under a fresh key and returns its public URL.
func (s *ProofStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("proofs/%s%s", uuid.NewString(), extensionFor(contentType))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload proof: %w", err)
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.PublicBaseURL, "/"), key)
	log.Printf("[ProofStore] Uploaded proof %s (%d bytes)", key, len(data))
	return url, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
