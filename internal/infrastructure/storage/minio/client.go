// Package minio reads dataset files from MinIO or any S3-compatible store
// when a dataset path has the s3://bucket/key form.
package minio

import (
	"context"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// Scheme is the URL scheme routed to object storage.
const Scheme = "s3"

// MinIOAPI is the subset of *minio.Client used here.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// MinIOConfig holds connection parameters.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Region          string
	// MaxObjectSize bounds how much of an object ReadObject will buffer.
	MaxObjectSize int64
}

type MinIOClient struct {
	client MinIOAPI
	config *MinIOConfig
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

var (
	ErrMinIOClientClosed = errors.Unavailable("minio client is closed")
	ErrObjectNotFound    = errors.New(errors.ErrCodeDatasetLoadFailed, "dataset object not found")
	ErrObjectTooLarge    = errors.New(errors.ErrCodeDatasetMalformed, "dataset object exceeds size limit")
)

// NewMinIOClient dials the endpoint.  Unlike a bucket-owning service it does
// not create buckets: the dashboard only reads.
func NewMinIOClient(cfg *MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	applyDefaults(cfg)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to create minio client")
	}

	log.Info("MinIO client configured", logging.String("endpoint", cfg.Endpoint), logging.Bool("ssl", cfg.UseSSL))
	return newWithAPI(client, cfg, log), nil
}

func newWithAPI(api MinIOAPI, cfg *MinIOConfig, log logging.Logger) *MinIOClient {
	applyDefaults(cfg)
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &MinIOClient{client: api, config: cfg, logger: log}
}

func applyDefaults(cfg *MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.MaxObjectSize == 0 {
		cfg.MaxObjectSize = 64 << 20
	}
}

// ObjectRef is a parsed s3:// location.
type ObjectRef struct {
	Bucket string
	Key    string
}

func (r ObjectRef) String() string { return Scheme + "://" + r.Bucket + "/" + r.Key }

// IsObjectURL reports whether path uses the s3:// scheme.
func IsObjectURL(path string) bool {
	return strings.HasPrefix(strings.ToLower(path), Scheme+"://")
}

// ParseObjectURL splits s3://bucket/key/parts into bucket and key.
func ParseObjectURL(raw string) (ObjectRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ObjectRef{}, errors.Wrap(err, errors.ErrCodeDatasetSourceInvalid, "invalid object url")
	}
	if !strings.EqualFold(u.Scheme, Scheme) {
		return ObjectRef{}, errors.New(errors.ErrCodeDatasetSourceInvalid, "object url must use s3://").WithDetail(raw)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return ObjectRef{}, errors.New(errors.ErrCodeDatasetSourceInvalid, "object url needs bucket and key").WithDetail(raw)
	}
	return ObjectRef{Bucket: u.Host, Key: key}, nil
}

// ReadObject downloads ref fully.  Objects larger than MaxObjectSize are
// rejected before any body is transferred.
func (c *MinIOClient) ReadObject(ctx context.Context, ref ObjectRef) ([]byte, error) {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return nil, ErrMinIOClientClosed
	}

	info, err := c.client.StatObject(ctx, ref.Bucket, ref.Key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrObjectNotFound.WithDetail(ref.String()).WithCause(err)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatasetLoadFailed, "failed to stat dataset object").WithDetail(ref.String())
	}
	if info.Size > c.config.MaxObjectSize {
		return nil, ErrObjectTooLarge.WithDetail(ref.String())
	}

	obj, err := c.client.GetObject(ctx, ref.Bucket, ref.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetLoadFailed, "failed to get dataset object").WithDetail(ref.String())
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, c.config.MaxObjectSize+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetLoadFailed, "failed to read dataset object").WithDetail(ref.String())
	}
	c.logger.Debug("dataset object read",
		logging.String("object", ref.String()),
		logging.Int("bytes", len(data)),
		logging.String("etag", info.ETag))
	return data, nil
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return true
	}
	return false
}

func (c *MinIOClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

type HealthStatus struct {
	Healthy bool
	Latency time.Duration
	Error   string
}

// HealthCheck lists buckets to prove credentials and reachability.
func (c *MinIOClient) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()
	_, err := c.client.ListBuckets(ctx)
	status := &HealthStatus{Healthy: err == nil, Latency: time.Since(start)}
	if err != nil {
		status.Error = err.Error()
		return status, err
	}
	return status, nil
}

//Personal.AI order the ending
