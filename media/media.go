package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Store is the media collaborator for course images and profile pictures.
type Store interface {
	// Upload accepts either a data URL (base64 inline image) or an http(s)
	// URL to fetch, and returns the public URL of the stored object.
	Upload(ctx context.Context, source string) (string, error)
	Delete(ctx context.Context, objectURL string) error
}

// S3Store stores images in an S3-compatible bucket (DigitalOcean Spaces).
type S3Store struct {
	s3Client *s3.S3
	http     *resty.Client
	bucket   string
	endpoint string
	cdnURL   string
}

type S3Config struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	CDNURL    string
}

func NewS3Store(config S3Config) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create media store session: %w", err)
	}

	return &S3Store{
		s3Client: s3.New(sess),
		http:     resty.New(),
		bucket:   config.Bucket,
		endpoint: config.Endpoint,
		cdnURL:   config.CDNURL,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, source string) (string, error) {
	data, contentType, err := s.resolve(ctx, source)
	if err != nil {
		return "", err
	}

	key := uuid.NewString() + extensionFor(contentType)

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	if s.cdnURL != "" {
		return fmt.Sprintf("%s/%s", s.cdnURL, key), nil
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpoint, key), nil
}

// Delete removes the object the URL points at. The key is the last path
// segment, the way Upload builds its URLs.
func (s *S3Store) Delete(ctx context.Context, objectURL string) error {
	key := objectURL
	if idx := strings.LastIndex(objectURL, "/"); idx >= 0 {
		key = objectURL[idx+1:]
	}
	if key == "" {
		return fmt.Errorf("cannot derive object key from %q", objectURL)
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", key, err)
	}
	return nil
}

// resolve turns the client-supplied source into raw bytes plus content type.
func (s *S3Store) resolve(ctx context.Context, source string) ([]byte, string, error) {
	switch {
	case strings.HasPrefix(source, "data:"):
		return decodeDataURL(source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		resp, err := s.http.R().SetContext(ctx).Get(source)
		if err != nil {
			return nil, "", fmt.Errorf("failed to fetch image: %w", err)
		}
		if resp.IsError() {
			return nil, "", fmt.Errorf("failed to fetch image: status %d", resp.StatusCode())
		}
		contentType := resp.Header().Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return resp.Body(), contentType, nil
	}
	return nil, "", fmt.Errorf("unsupported image source")
}

// decodeDataURL parses data:<content-type>;base64,<payload>
func decodeDataURL(source string) ([]byte, string, error) {
	rest := strings.TrimPrefix(source, "data:")
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return nil, "", fmt.Errorf("malformed data URL")
	}
	meta, payload := rest[:comma], rest[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("only base64 data URLs are supported")
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("malformed base64 image data: %w", err)
	}
	return data, contentType, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
