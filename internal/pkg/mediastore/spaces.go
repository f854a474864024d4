package mediastore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// SpacesConfig holds configuration for an S3-compatible bucket such as DigitalOcean Spaces
type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	CDNURL    string
}

// SpacesStore stores assets as public objects in an S3-compatible bucket. The object key
// is the public id.
type SpacesStore struct {
	s3Client *s3.S3
	bucket   string
	endpoint string
	cdnURL   string
}

// NewSpacesStore creates a new bucket-backed store
func NewSpacesStore(cfg SpacesConfig) (*SpacesStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create spaces session: %w", err)
	}

	return &SpacesStore{
		s3Client: s3.New(sess),
		bucket:   cfg.Bucket,
		endpoint: strings.TrimPrefix(cfg.Endpoint, "https://"),
		cdnURL:   strings.TrimRight(cfg.CDNURL, "/"),
	}, nil
}

// Upload puts the object under <folder>/<uuid><ext>. Transformations are not applied.
func (s *SpacesStore) Upload(ctx context.Context, r io.Reader, opts UploadOptions) (*UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload body: %w", err)
	}

	ext := extension(opts.Filename)
	key := strings.Trim(opts.Folder, "/") + "/" + uuid.New().String() + ext
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	return &UploadResult{
		PublicID:  key,
		SecureURL: s.objectURL(key),
		Format:    strings.TrimPrefix(ext, "."),
	}, nil
}

// Delete removes the object. S3 reports success for missing keys.
func (s *SpacesStore) Delete(ctx context.Context, publicID string, _ ResourceKind) error {
	if publicID == "" {
		return nil
	}
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", publicID, err)
	}
	return nil
}

func (s *SpacesStore) objectURL(key string) string {
	if s.cdnURL != "" {
		return s.cdnURL + "/" + key
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpoint, key)
}
