package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "wardrobeapi/config"
)

// ClothesKeyPrefix marks imageUrl values that are object keys in the bucket
// rather than external links.
const ClothesKeyPrefix = "clothes/"

var ErrStorageDisabled = errors.New("object storage is not configured")

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".heic", ".heif", ".webp"}

type AWSServiceProvider interface {
	PresignLink(ctx context.Context, fileName string) (string, error)
	GetPresignedR2FileReadURL(ctx context.Context, fileKey string) (string, error)
}

type AWSService struct {
	S3PresignClient *s3.PresignClient
	BucketName      string
}

// NewAWSService builds an R2 presign client, or returns ErrStorageDisabled
// when cfg lacks credentials.
func NewAWSService(ctx context.Context, cfg appconfig.R2) (*AWSService, error) {
	if !cfg.Enabled() {
		return nil, ErrStorageDisabled
	}
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID),
		}, nil
	})
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithEndpointResolverWithOptions(r2Resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &AWSService{
		S3PresignClient: s3.NewPresignClient(s3.NewFromConfig(awsCfg)),
		BucketName:      cfg.Bucket,
	}, nil
}

func (awsService *AWSService) PresignLink(ctx context.Context, fileName string) (string, error) {
	request, err := awsService.S3PresignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(awsService.BucketName),
		Key:    aws.String(fileName),
	}, s3.WithPresignExpires(presignedURLExpiration))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return request.URL, nil
}

func (awsService *AWSService) GetPresignedR2FileReadURL(ctx context.Context, fileKey string) (string, error) {
	request, err := awsService.S3PresignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(awsService.BucketName),
		Key:    aws.String(fileKey),
	}, s3.WithPresignExpires(presignedURLExpiration))
	if err != nil {
		return "", fmt.Errorf("failed to presign request: %w", err)
	}
	return request.URL, nil
}

// NewClothingObjectKey returns a fresh key under ClothesKeyPrefix keeping
// the extension of fileName. Only image extensions are accepted.
func NewClothingObjectKey(fileName string, now time.Time) (string, error) {
	ext := strings.ToLower(path.Ext(fileName))
	if !isAllowedImageExtension(ext) {
		return "", fmt.Errorf("unsupported file type %q: %w", ext, ErrValidation)
	}
	return fmt.Sprintf("%s%s/%s%s", ClothesKeyPrefix, now.UTC().Format("2006-01-02"), uuid.NewString(), ext), nil
}

func isAllowedImageExtension(ext string) bool {
	for _, allowed := range allowedImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// IsObjectKey reports whether an imageUrl points into the bucket.
func IsObjectKey(imageURL string) bool {
	return strings.HasPrefix(imageURL, ClothesKeyPrefix)
}
