package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client is the subset of *s3.Client the S3Reader depends on, so
// tests can substitute a fake without a live AWS endpoint.
type S3Client interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Reader fetches WDL sources from `s3://bucket/key` URIs. The
// teacher's go.mod carried aws-sdk-go-v2 without ever calling it; this
// is its first real consumer, giving the import pipeline a third
// storage backend alongside local disk and HTTPS.
type S3Reader struct {
	client S3Client
}

// NewS3Reader loads the default AWS credential chain and region
// configuration, mirroring the SDK's usual "config.LoadDefaultConfig"
// bootstrap.
func NewS3Reader(ctx context.Context) (*S3Reader, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Reader{client: s3.NewFromConfig(cfg)}, nil
}

// NewS3ReaderWithClient wraps an already-configured client, used by
// tests to inject a fake S3Client.
func NewS3ReaderWithClient(client S3Client) *S3Reader {
	return &S3Reader{client: client}
}

func (S3Reader) Scheme() string { return "s3" }

func (r *S3Reader) Read(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func parseS3URI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, "s3://")
	if rest == uri {
		return "", "", fmt.Errorf("not an s3:// uri: %q", uri)
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed s3 uri %q, expected s3://bucket/key", uri)
	}
	return parts[0], parts[1], nil
}
