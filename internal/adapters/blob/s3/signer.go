// Package s3 signs download URLs for penalty attachments kept in an
// S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"context"
	"fmt"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
)

const defaultExpiry = 15 * time.Minute

// Config holds explicit construction parameters. Empty keys fall back to the
// default AWS credentials chain.
type Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// Signer presigns GET requests for objects in one bucket.
type Signer struct {
	bucket  string
	presign *s3.PresignClient
}

var _ portsrepo.AttachmentSigner = (*Signer)(nil)

// New creates a Signer from cfg.
func New(ctx context.Context, cfg Config) (*Signer, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Signer{bucket: cfg.Bucket, presign: s3.NewPresignClient(client)}, nil
}

// SignedURL presigns a GET for key. File references may be stored with a
// leading slash or a "<bucket>/" prefix; both are stripped.
func (s *Signer) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	key = strings.TrimPrefix(strings.TrimPrefix(key, "/"), s.bucket+"/")
	if key == "" {
		return "", fmt.Errorf("empty attachment key")
	}
	if expiry <= 0 {
		expiry = defaultExpiry
	}
	out, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)},
		func(po *s3.PresignOptions) { po.Expires = expiry })
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return out.URL, nil
}
