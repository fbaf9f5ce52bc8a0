package export

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// latestObject is the stable key consumers poll for the newest digest.
const latestObject = "latest.jsonl"

// S3Destination writes digests to an S3-compatible bucket: one
// timestamped object per digest for history, plus a stable latest.jsonl
// that always holds the newest one.
type S3Destination struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Destination creates an S3 destination with objects under the
// given key prefix. If endpoint is non-empty, path-style addressing is
// enabled (for MinIO and similar).
func NewS3Destination(ctx context.Context, bucket, prefix, region, endpoint string) (*S3Destination, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(cfg, s3opts...)
	return &S3Destination{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// Write uploads the digest twice: once under a key derived from its
// timestamp and once as the latest object.
func (d *S3Destination) Write(ctx context.Context, digest *Digest) error {
	dated := fmt.Sprintf("digest-%s.jsonl", digest.Timestamp.UTC().Format("20060102T150405Z"))
	for _, key := range []string{path.Join(d.prefix, dated), path.Join(d.prefix, latestObject)} {
		if err := d.put(ctx, key, digest.Data); err != nil {
			return err
		}
	}
	return nil
}

func (d *S3Destination) put(ctx context.Context, key string, data []byte) error {
	contentType := "application/x-ndjson"
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("s3 put object %s: %w", key, err)
	}
	return nil
}
