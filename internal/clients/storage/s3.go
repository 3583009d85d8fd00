package storage

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/KirkDiggler/cryptea/internal/errors"
)

// S3Scheme is the URI scheme of the S3 store
const S3Scheme = "s3://"

// S3API is the subset of the S3 client the store uses
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds configuration for S3Store
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // Optional custom endpoint (for MinIO, LocalStack, etc.)
	Prefix   string // Optional key prefix
}

// Validate ensures a bucket is named
func (c *S3Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Bucket", c.Bucket, vb)
	return vb.Build()
}

// S3Store keeps artifacts in a bucket keyed by their hash
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates a store from the default AWS credential chain
func NewS3Store(ctx context.Context, cfg *S3Config) (*S3Store, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to load AWS config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO/LocalStack
		}
	})

	return NewS3StoreWithClient(client, cfg)
}

// NewS3StoreWithClient creates a store around an existing client
func NewS3StoreWithClient(client S3API, cfg *S3Config) (*S3Store, error) {
	if client == nil {
		return nil, errors.InvalidArgument("s3 client is required")
	}
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &S3Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

var _ Client = (*S3Store)(nil)

// Put uploads data unless the object already exists
func (s *S3Store) Put(ctx context.Context, input *PutInput) (*PutOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash := Digest(input.Data)
	key := s.prefix + hash
	out := &PutOutput{URI: S3Scheme + s.bucket + "/" + key, Hash: HashPrefix + hash}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return out, nil
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(input.Data),
		ContentType: aws.String(input.ContentType),
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "s3 put failed")
	}

	slog.DebugContext(ctx, "Stored artifact", "uri", out.URI, "bytes", len(input.Data))
	return out, nil
}

// Get downloads an object
func (s *S3Store) Get(ctx context.Context, uri string) (*GetOutput, error) {
	key, err := s.parseURI(uri)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if stderrors.As(err, &noSuchKey) {
			return nil, errors.NotFoundf("artifact %s not found", uri)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "s3 get failed")
	}
	defer func() { _ = result.Body.Close() }()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "s3 read failed")
	}

	return &GetOutput{Data: data, ContentType: aws.ToString(result.ContentType)}, nil
}

// Delete removes an object. S3 treats deleting a missing key as success.
func (s *S3Store) Delete(ctx context.Context, uri string) error {
	key, err := s.parseURI(uri)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "s3 delete failed")
	}
	return nil
}

// parseURI accepts only URIs this store produced.
func (s *S3Store) parseURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, S3Scheme+s.bucket+"/")
	if !ok {
		return "", errors.InvalidArgumentf("not an artifact URI for bucket %s: %q", s.bucket, uri)
	}
	hash, ok := strings.CutPrefix(rest, s.prefix)
	if !ok || !isHex(hash) {
		return "", errors.InvalidArgumentf("not an artifact URI for bucket %s: %q", s.bucket, uri)
	}
	return rest, nil
}
