package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	awsconfig "github.com/cliptube/backend/config"
	"github.com/cliptube/backend/pkg/logger"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3Store uploads local files to an S3-compatible bucket and returns a
// durable public URL. It is the asset store backing avatar and cover
// image uploads; MinIO works as well via S3_BASE_ENDPOINT.
type S3Store struct {
	cfg    awsconfig.StorageConfig
	client *s3.Client
}

func NewS3Store(cfg awsconfig.StorageConfig) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{cfg: cfg, client: client}, nil
}

// objectKey derives a collision-free key, partitioned by upload date so the
// bucket stays browsable.
func objectKey(localPath string) string {
	d := time.Now()
	ext := filepath.Ext(localPath)
	return fmt.Sprintf("uploads/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

// UploadFile uploads the file at localPath and returns its public URL.
// The temporary file is removed once the upload finished, matching the
// one-shot semantics of the registration flow.
func (s *S3Store) UploadFile(ctx context.Context, localPath string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open upload %s: %w", localPath, err)
	}
	defer file.Close()
	defer os.Remove(localPath)

	key := objectKey(localPath)
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	start := time.Now()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.GetLogger().Error("Asset upload failed",
			zap.String("bucket", s.cfg.Bucket),
			zap.String("key", key),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	url := s.publicURL(key)

	logger.GetLogger().Debug("Asset uploaded",
		zap.String("bucket", s.cfg.Bucket),
		zap.String("key", key),
		zap.String("url", url),
		zap.Duration("duration", time.Since(start)),
	)

	return url, nil
}

func (s *S3Store) publicURL(key string) string {
	if s.cfg.PublicURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.PublicURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
