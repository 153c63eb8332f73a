package trash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/OmbraDiFenice/dupe-remover/internal/clones"
)

// S3Trash stores archived content in an S3 bucket under
// <prefix>/content/<checksum>.
type S3Trash struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// S3Options configures an S3Trash. Region and the static credential
// pair are optional; when empty the SDK's default resolution chain
// (environment, shared config, instance role) applies.
type S3Options struct {
	Bucket          string
	Prefix          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Trash creates a trash backed by an S3 bucket.
func NewS3Trash(opts S3Options) (*S3Trash, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 trash requires a bucket")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Trash{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		prefix:   opts.Prefix,
	}, nil
}

// key returns the object key for a checksum.
func (t *S3Trash) key(checksum string) string {
	return path.Join(t.prefix, "content", checksum)
}

// Put stores content identified by its checksum.
// The operation is idempotent: storing the same checksum multiple times is safe.
func (t *S3Trash) Put(checksum string, r io.Reader, size int64) error {
	ctx := context.Background()
	key := t.key(checksum)

	// If content already exists, skip the upload (idempotent)
	_, err := t.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(t.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		written, err := io.Copy(io.Discard, r)
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
		if written != size {
			return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
		}
		return nil
	}
	var notFound *s3types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("checking for existing object: %w", err)
	}

	if _, err := t.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(t.bucket),
		Key:    aws.String(key),
		Body:   r,
	}); err != nil {
		return fmt.Errorf("uploading content: %w", err)
	}
	return nil
}

// Get retrieves content by checksum and writes it to w.
func (t *S3Trash) Get(checksum string, w io.Writer) error {
	out, err := t.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(t.bucket),
		Key:    aws.String(t.key(checksum)),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return fmt.Errorf("content not found: %s", checksum)
		}
		return fmt.Errorf("downloading content: %w", err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}
	return nil
}

// Validate verifies that the bucket is accessible.
func (t *S3Trash) Validate() error {
	_, err := t.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(t.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket not accessible: %w", err)
	}
	return nil
}

// Compile-time check that S3Trash implements clones.Trash
var _ clones.Trash = (*S3Trash)(nil)
