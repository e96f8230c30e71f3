package mirror

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

	"plannerd/internal/config"
	"plannerd/internal/state"
)

// S3Mirror stores snapshot copies as objects in an S3 bucket under an
// optional key prefix. Credentials come from the config file when set,
// otherwise from the default AWS credential chain.
type S3Mirror struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Mirror creates an S3 mirror from the mirror config section.
func NewS3Mirror(cfg config.MirrorConfig) (*S3Mirror, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 mirror requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Mirror{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
	}, nil
}

func (m *S3Mirror) key(name string) string {
	return path.Join(m.prefix, name)
}

// Put uploads a snapshot payload. The uploader handles multipart uploads
// transparently, though snapshots are small enough for a single part.
func (m *S3Mirror) Put(name string, r io.Reader, size int64) error {
	_, err := m.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(m.key(name)),
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("uploading %s to s3: %w", name, err)
	}
	return nil
}

// Fetch downloads a mirrored snapshot payload and writes it to w.
func (m *S3Mirror) Fetch(name string, w io.Writer) error {
	out, err := m.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.key(name)),
	})
	if err != nil {
		var notFound *s3types.NoSuchKey
		if errors.As(err, &notFound) {
			return fmt.Errorf("mirrored snapshot not found: %s", name)
		}
		return fmt.Errorf("fetching %s from s3: %w", name, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading %s from s3: %w", name, err)
	}
	return nil
}

// ValidateSetup verifies that the bucket is reachable with the configured
// credentials.
func (m *S3Mirror) ValidateSetup() error {
	_, err := m.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(m.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3 bucket %s not accessible: %w", m.bucket, err)
	}
	return nil
}

// Compile-time check that S3Mirror implements state.Mirror.
var _ state.Mirror = (*S3Mirror)(nil)
