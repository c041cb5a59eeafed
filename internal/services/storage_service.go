// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stationeryhq/ledger/internal/config"
)

// StorageService keeps archived snapshots in S3, or in a local directory
// when no AWS credentials are configured.
type StorageService struct {
	s3Client *s3.S3
	bucket   string
	prefix   string
	localDir string
}

type ArchiveResult struct {
	Location string `json:"location"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
}

func NewStorageService(awsCfg config.AWSConfig, backupDir string) (*StorageService, error) {
	svc := &StorageService{
		bucket:   awsCfg.S3Bucket,
		prefix:   awsCfg.S3Prefix,
		localDir: backupDir,
	}
	if awsCfg.AccessKeyID == "" {
		// Local development
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(awsCfg.Region),
		Credentials: credentials.NewStaticCredentials(
			awsCfg.AccessKeyID,
			awsCfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc.s3Client = s3.New(sess)
	return svc, nil
}

// UsesS3 reports whether archives go to a bucket.
func (s *StorageService) UsesS3() bool {
	return s.s3Client != nil
}

// Store writes body under a fresh, time-ordered object name.
func (s *StorageService) Store(ctx context.Context, body []byte, at time.Time) (*ArchiveResult, error) {
	name := s.generateFileName(at)

	if s.s3Client != nil {
		return s.uploadToS3(ctx, body, path.Join(s.prefix, name))
	}
	return s.writeLocal(body, name)
}

func (s *StorageService) uploadToS3(ctx context.Context, body []byte, key string) (*ArchiveResult, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &ArchiveResult{
		Location: fmt.Sprintf("s3://%s/%s", s.bucket, key),
		Key:      key,
		Size:     int64(len(body)),
	}, nil
}

func (s *StorageService) writeLocal(body []byte, name string) (*ArchiveResult, error) {
	target := filepath.Join(s.localDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	logrus.WithField("path", target).Debug("Snapshot written to local backup directory")
	return &ArchiveResult{
		Location: target,
		Key:      name,
		Size:     int64(len(body)),
	}, nil
}

func (s *StorageService) generateFileName(at time.Time) string {
	// Date folder, then timestamp and a short UUID for uniqueness
	id := uuid.New()
	return fmt.Sprintf("%s/ledger_%s_%s.json",
		at.UTC().Format("2006/01/02"),
		at.UTC().Format("20060102T150405Z"),
		id.String()[:8])
}
