package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/config"
	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/domain/repository"
)

// maxDeleteBatch - S3 DeleteObjects accepts at most 1000 keys per request
const maxDeleteBatch = 1000

type presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type objectDeleter interface {
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type s3Storage struct {
	presigner presigner
	deleter   objectDeleter
	bucket    string
	logger    *zap.Logger
}

// NewS3Storage - S3 or any S3 compatible endpoint (MinIO with path-style addressing)
func NewS3Storage(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (repository.ObjectStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info("Object storage configured",
		zap.String("bucket", cfg.Bucket),
		zap.String("region", cfg.Region),
		zap.String("endpoint", cfg.Endpoint),
	)

	return newS3Storage(client, cfg.Bucket, logger), nil
}

func newS3Storage(client *s3.Client, bucket string, logger *zap.Logger) *s3Storage {
	return &s3Storage{
		presigner: s3.NewPresignClient(client),
		deleter:   client,
		bucket:    bucket,
		logger:    logger,
	}
}

// PresignBatch signs GET URLs for every item. Signing one item never fails the
// batch: its result carries Err instead. Only cancellation aborts the call.
func (s *s3Storage) PresignBatch(ctx context.Context, items []domain.PresignItem, expiry time.Duration) ([]domain.PresignResult, error) {
	results := make([]domain.PresignResult, len(items))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results[i].ID = item.ID
		if item.FilePath == "" {
			results[i].Err = errors.New("empty file path")
			continue
		}

		input := &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(item.FilePath),
		}
		if item.FileName != "" {
			input.ResponseContentDisposition = aws.String(fmt.Sprintf("inline; filename=%q", item.FileName))
		}

		req, err := s.presigner.PresignGetObject(ctx, input, s3.WithPresignExpires(expiry))
		if err != nil {
			s.logger.Warn("Failed to presign media",
				zap.String("media_id", item.ID),
				zap.String("key", item.FilePath),
				zap.Error(err))
			results[i].Err = err
			continue
		}
		results[i].URL = req.URL
	}

	return results, nil
}

// DeleteObjects removes keys in batches; missing keys are not an error in S3
func (s *s3Storage) DeleteObjects(ctx context.Context, keys []string) error {
	var errs []error

	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(keys))

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, k := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(k)})
		}

		out, err := s.deleter.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			s.logger.Error("Failed to delete objects", zap.Int("count", len(objects)), zap.Error(err))
			errs = append(errs, fmt.Errorf("delete objects: %w", err))
			continue
		}

		for _, e := range out.Errors {
			errs = append(errs, fmt.Errorf("delete %s: %s", aws.ToString(e.Key), aws.ToString(e.Message)))
		}
	}

	return errors.Join(errs...)
}
