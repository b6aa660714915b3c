// Package s3 implements the content store over an S3 (or S3-compatible)
// bucket. Object keys form the served tree; "directories" are key
// prefixes, surfaced through delimiter listings.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/staticd/staticd/pkg/content"
)

// Config holds the S3 store settings.
type Config struct {
	// Region is the AWS region of the bucket. Required.
	Region string `mapstructure:"region"`

	// Bucket is the bucket to serve from. Required.
	Bucket string `mapstructure:"bucket"`

	// KeyPrefix, when set, scopes the served tree to keys below it.
	KeyPrefix string `mapstructure:"key_prefix"`

	// Endpoint overrides the S3 endpoint (MinIO, Localstack, etc.).
	Endpoint string `mapstructure:"endpoint"`

	// AccessKeyID and SecretAccessKey provide static credentials.
	// When empty, the default AWS credential chain is used.
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// S3Store serves the contents of a bucket read-only.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates an S3 store from the given config.
func New(ctx context.Context, cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 store: bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 store: region is required")
	}

	var opts []func(*awsConfig.LoadOptions) error
	opts = append(opts, awsConfig.WithRegion(cfg.Region))

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	prefix := strings.Trim(cfg.KeyPrefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &S3Store{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

// Root returns "/": the store's namespace is virtual, anchored at the
// bucket (or key prefix) root.
func (s *S3Store) Root() string {
	return "/"
}

// key maps a resolved rooted path onto an object key.
func (s *S3Store) key(path string) string {
	return s.prefix + strings.TrimPrefix(path, "/")
}

func (s *S3Store) Stat(ctx context.Context, path string) (content.Info, error) {
	if err := ctx.Err(); err != nil {
		return content.Info{}, err
	}
	if path == "/" {
		return content.Info{IsDir: true}, nil
	}

	key := s.key(path)
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return content.Info{Size: aws.ToInt64(head.ContentLength)}, nil
	}

	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return content.Info{}, fmt.Errorf("head object %s: %w", key, err)
	}

	// No object under that key: it is a directory if any key lives
	// below it.
	isDir, err := s.hasChildren(ctx, key)
	if err != nil {
		return content.Info{}, err
	}
	if isDir {
		return content.Info{IsDir: true}, nil
	}
	return content.Info{}, fmt.Errorf("stat %s: %w", path, content.ErrNotFound)
}

func (s *S3Store) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := s.key(path)
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("read %s: %w", path, content.ErrNotFound)
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("download object %s: %w", key, err)
	}
	return data, nil
}

func (s *S3Store) List(ctx context.Context, path string) ([]content.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := s.key(path)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var entries []content.Entry
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects %s: %w", prefix, err)
		}

		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			if name != "" {
				entries = append(entries, content.Entry{Name: name, IsDir: true})
			}
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			// Skip the zero-byte placeholder some tools create for
			// the "directory" itself.
			if name != "" {
				entries = append(entries, content.Entry{Name: name})
			}
		}
	}

	return entries, nil
}

func (s *S3Store) Close() error {
	return nil
}

func (s *S3Store) hasChildren(ctx context.Context, key string) (bool, error) {
	prefix := strings.TrimSuffix(key, "/") + "/"
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("list objects %s: %w", prefix, err)
	}
	return aws.ToInt32(out.KeyCount) > 0, nil
}
