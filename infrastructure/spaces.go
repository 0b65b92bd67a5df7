package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"
)

// SpacesConfig points at an S3 compatible bucket (AWS S3 or DigitalOcean Spaces).
type SpacesConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// SpacesBlobStore keeps uploads in an S3 compatible bucket.
type SpacesBlobStore struct {
	client    *s3.S3
	bucket    string
	publicURL string
	log       logrus.FieldLogger
}

func NewSpacesBlobStore(cfg SpacesConfig, log logrus.FieldLogger) (*SpacesBlobStore, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("spaces credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("spaces bucket is required")
	}

	awsCfg := &aws.Config{
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Region:      aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create spaces session: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.%s.digitaloceanspaces.com", cfg.Bucket, cfg.Region)
	}

	log = log.WithField("component", "spaces")
	log.WithFields(logrus.Fields{"bucket": cfg.Bucket, "region": cfg.Region}).Info("Spaces client initialized")

	return &SpacesBlobStore{
		client:    s3.New(sess),
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		log:       log,
	}, nil
}

// Put uploads the object as private; the returned URL needs a CDN or
// bucket policy in front of it to be reachable.
func (s *SpacesBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         aws.String(s3.ObjectCannedACLPrivate),
	})
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Failed to upload object")
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.log.WithFields(logrus.Fields{"key": key, "size": len(data)}).Debug("Object uploaded")
	return s.publicURL + "/" + key, nil
}

// Ping checks the bucket is reachable with the configured credentials.
func (s *SpacesBlobStore) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
