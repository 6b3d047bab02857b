package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const expiresMeta = "Expires-At"

// ObjectCache stores entries as objects in an S3-compatible bucket. Expiry
// is recorded in object metadata and checked on Get; bucket lifecycle rules
// can purge old objects.
type ObjectCache struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewObjectCache wraps an existing client.
func NewObjectCache(client *minio.Client, bucket, prefix string) *ObjectCache {
	return &ObjectCache{client: client, bucket: bucket, prefix: prefix}
}

// OpenObject parses s3://bucket/prefix?endpoint=host:port&insecure=1&region=r
// and connects with credentials from the AWS_* or MINIO_* environment
// variables. The endpoint defaults to s3.amazonaws.com.
func OpenObject(ctx context.Context, rawURL string) (*ObjectCache, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %s: missing bucket", ErrUnsupportedURL, rawURL)
	}
	q := u.Query()
	endpoint := q.Get("endpoint")
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
		}),
		Secure: q.Get("insecure") == "",
		Region: q.Get("region"),
	})
	if err != nil {
		return nil, err
	}
	ok, err := client.BucketExists(ctx, u.Host)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if !ok {
		return nil, fmt.Errorf("bucket %s does not exist", u.Host)
	}
	return NewObjectCache(client, u.Host, path.Clean("/" + u.Path)[1:]), nil
}

func (c *ObjectCache) key(key string) string {
	return path.Join(c.prefix, Hash([]byte(key)))
}

// Get implements [Cache].
func (c *ObjectCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	var expires string
	err := RetryWithBackoff(ctx, func() error {
		obj, err := c.client.GetObject(ctx, c.bucket, c.key(key), minio.GetObjectOptions{})
		if err != nil {
			return objectError(err)
		}
		defer obj.Close()
		info, err := obj.Stat()
		if err != nil {
			return objectError(err)
		}
		data, err = io.ReadAll(obj)
		if err != nil {
			return objectError(err)
		}
		expires = info.UserMetadata[expiresMeta]
		return nil
	})
	if isNoSuchKey(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if expires != "" {
		if t, err := time.Parse(time.RFC3339Nano, expires); err == nil && time.Now().After(t) {
			return nil, false, nil
		}
	}
	return data, true, nil
}

// Set implements [Cache].
func (c *ObjectCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	opts := minio.PutObjectOptions{ContentType: "application/octet-stream"}
	if ttl > 0 {
		opts.UserMetadata = map[string]string{expiresMeta: time.Now().Add(ttl).UTC().Format(time.RFC3339Nano)}
	}
	return RetryWithBackoff(ctx, func() error {
		_, err := c.client.PutObject(ctx, c.bucket, c.key(key), bytes.NewReader(data), int64(len(data)), opts)
		return objectError(err)
	})
}

// Delete implements [Cache].
func (c *ObjectCache) Delete(ctx context.Context, key string) error {
	err := RetryWithBackoff(ctx, func() error {
		return objectError(c.client.RemoveObject(ctx, c.bucket, c.key(key), minio.RemoveObjectOptions{}))
	})
	if isNoSuchKey(err) {
		return nil
	}
	return err
}

// Close does nothing; the client holds no persistent connections.
func (c *ObjectCache) Close() error { return nil }

func isNoSuchKey(err error) bool {
	if err == nil {
		return false
	}
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

// objectError marks server-side and throttling failures as retryable.
func objectError(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode >= 500 || resp.Code == "SlowDown" || resp.Code == "RequestTimeout" {
		return Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return err
}

var _ Cache = (*ObjectCache)(nil)
