package publish

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds explicit construction parameters for an S3Store, mostly
// for tests. Production setups rely on the environment.
type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string // optional key prefix, e.g. "rosters"
	Endpoint        string // optional; enables custom endpoints (e.g. MinIO)
	AccessKeyID     string // optional (falls back to default credentials chain)
	SecretAccessKey string // optional
	SessionToken    string // optional
	PathStyle       bool
}

// S3Store publishes rosters to an S3-compatible bucket. Keys map to
// object keys directly, under the configured prefix. The put message is
// kept as object metadata.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates an S3Store from S3Config.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// S3ConfigFromEnv reads an S3Config from the process environment. The
// result may be incomplete; NewS3Store validates it.
//
//	SHUDDHI_S3_BUCKET=<bucket> (required)
//	SHUDDHI_S3_REGION=<region> (default us-east-1)
//	SHUDDHI_S3_PREFIX=<prefix> (optional)
//	SHUDDHI_S3_ENDPOINT=<url> (optional, for MinIO)
//	SHUDDHI_S3_PATH_STYLE=true|false (default false)
//
// Credentials come from the default AWS chain.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Bucket:    os.Getenv("SHUDDHI_S3_BUCKET"),
		Region:    os.Getenv("SHUDDHI_S3_REGION"),
		Prefix:    os.Getenv("SHUDDHI_S3_PREFIX"),
		Endpoint:  os.Getenv("SHUDDHI_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("SHUDDHI_S3_PATH_STYLE"), "true"),
	}
}

// OpenS3FromEnv constructs an S3Store from the process environment.
func OpenS3FromEnv(ctx context.Context) (*S3Store, error) {
	cfg := S3ConfigFromEnv()
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("SHUDDHI_S3_BUCKET required for the s3 store")
	}
	return NewS3Store(ctx, cfg)
}

// Put uploads content at path under the configured prefix.
func (s *S3Store) Put(ctx context.Context, path string, content []byte, message string) error {
	key := strings.TrimPrefix(path, "/")
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	input := &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentTypeFor(path)),
	}
	if message != "" {
		input.Metadata = map[string]string{"message": message}
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func contentTypeFor(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}
