package store

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/bifrost-finance/linker"
	"github.com/bifrost-finance/linker/errors"
)

// S3Options configures an S3 compatible account list location.
type S3Options struct {
	Region string
	// Endpoint is set for S3 compatible services such as MinIO. Path style
	// addressing is used then.
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
}

// S3Store keeps the account list as a single object, so that co-signers
// running on different hosts read the same list.
type S3Store struct {
	client *s3.Client
	bucket string
	key    string
	prefix uint16
}

var _ Store = (*S3Store)(nil)

// NewS3Store returns a store backed by an S3 object. Without static
// credentials the default AWS credential chain is used.
func NewS3Store(ctx context.Context, o S3Options, prefix uint16) (*S3Store, error) {
	if o.Bucket == "" || o.Key == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "s3 bucket and key are required")
	}

	loaders := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(o.Region),
	}
	if o.AccessKey != "" || o.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")
		loaders = append(loaders, awsconfig.WithCredentialsProvider(creds))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "load aws config: %s", err)
	}

	client := s3.NewFromConfig(cfg, func(opts *s3.Options) {
		if o.Endpoint != "" {
			opts.BaseEndpoint = aws.String(o.Endpoint)
			opts.UsePathStyle = true
		}
	})
	return &S3Store{client: client, bucket: o.Bucket, key: o.Key, prefix: prefix}, nil
}

func (s *S3Store) Load(ctx context.Context) ([]linker.AccountLink, error) {
	res, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if stderrors.As(err, &missing) {
			return nil, errors.Wrapf(errors.ErrNotFound, "s3://%s/%s", s.bucket, s.key)
		}
		return nil, errors.Wrapf(errors.ErrInvalidState, "get s3://%s/%s: %s", s.bucket, s.key, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidState, "read s3://%s/%s: %s", s.bucket, s.key, err)
	}
	links, err := Unmarshal(raw)
	return links, errors.Wrapf(err, "s3://%s/%s", s.bucket, s.key)
}

// Save uploads the whole account list. S3 replaces objects atomically.
func (s *S3Store) Save(ctx context.Context, links []linker.AccountLink) error {
	raw, err := Marshal(links, s.prefix)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "put s3://%s/%s: %s", s.bucket, s.key, err)
	}
	return nil
}
