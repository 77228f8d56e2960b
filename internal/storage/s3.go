package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Uploader stores processed media in an S3 bucket and hands back public URLs.
type Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewUploader builds an S3-backed uploader. Credentials come from the default
// chain (env vars, shared config, instance role). baseURL overrides the
// public URL prefix, e.g. a CDN domain; empty means the standard
// bucket.s3.region endpoint.
func NewUploader(ctx context.Context, region, bucket, baseURL string) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &Uploader{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// UploadJPEG stores data under folder with a random filename and returns the
// public URL. identifier is prepended to the filename when non-empty so
// objects stay attributable (e.g. the submitting user's ID).
func (u *Uploader) UploadJPEG(ctx context.Context, folder, identifier string, data []byte) (string, error) {
	name := uuid.NewString() + ".jpg"
	if identifier != "" {
		name = identifier + "-" + name
	}
	key := folder + "/" + name

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return u.baseURL + "/" + key, nil
}

// Delete removes an object by key. Best-effort cleanup; callers log failures.
func (u *Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// ExtractKey recovers the object key from a public URL produced by UploadJPEG.
func ExtractKey(publicURL string) string {
	parsed, err := url.Parse(publicURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Path, "/")
}
