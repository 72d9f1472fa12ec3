package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore reads s3:// objects from an S3-compatible endpoint.
type MinioStore struct {
	client *minio.Client
}

func NewMinIOClient(cfg Config) (*minio.Client, error) {
	if cfg.S3Endpoint == "" {
		return nil, errors.New("OBJECTSTORE_S3_ENDPOINT is required")
	}
	transport := newTransport()
	opts := &minio.Options{
		Creds:     minioCredentials(cfg, transport),
		Secure:    cfg.S3UseSSL,
		Region:    cfg.Region,
		Transport: transport,
	}
	if cfg.S3PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	return minio.New(cfg.S3Endpoint, opts)
}

// minioCredentials uses static keys when given, else the usual AWS sources.
func minioCredentials(cfg Config, transport http.RoundTripper) *credentials.Credentials {
	if cfg.S3AccessKey != "" {
		return credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	return credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.EnvMinio{},
		&credentials.FileAWSCredentials{},
		&credentials.IAM{Client: &http.Client{Transport: transport}},
	})
}

func NewMinioStore(cfg Config) (*MinioStore, error) {
	client, err := NewMinIOClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewMinioStoreWithClient(client)
}

func NewMinioStoreWithClient(client *minio.Client) (*MinioStore, error) {
	if client == nil {
		return nil, fmt.Errorf("minio client is required")
	}
	return &MinioStore{client: client}, nil
}

func (s *MinioStore) Get(ctx context.Context, loc Location) (io.ReadCloser, ObjectInfo, error) {
	if s == nil || s.client == nil {
		return nil, ObjectInfo{}, fmt.Errorf("minio store not initialized")
	}
	info, err := s.client.StatObject(ctx, loc.Bucket, loc.Key, minio.StatObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, minioError(loc, err)
	}
	obj, err := s.client.GetObject(ctx, loc.Bucket, loc.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, minioError(loc, err)
	}
	return obj, ObjectInfo{
		Key:          info.Key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

func minioError(loc Location, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	return fmt.Errorf("get %s: %w", loc, err)
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
