package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/turtacn/readiness-dashboard/internal/infrastructure/storage/minio"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// ObjectReader fetches s3:// objects.  *minio.MinIOClient implements it.
type ObjectReader interface {
	ReadObject(ctx context.Context, ref minio.ObjectRef) ([]byte, error)
}

// SourceKind classifies a dataset path.
type SourceKind string

const (
	SourceFile   SourceKind = "file"
	SourceHTTP   SourceKind = "http"
	SourceObject SourceKind = "s3"
)

// KindOf classifies path by scheme.
func KindOf(path string) SourceKind {
	lower := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return SourceHTTP
	case minio.IsObjectURL(path):
		return SourceObject
	default:
		return SourceFile
	}
}

// maxHTTPBody bounds remote downloads.
const maxHTTPBody = 64 << 20

// readSource fetches the raw bytes behind path.
func (l *Loader) readSource(ctx context.Context, path string) ([]byte, error) {
	switch KindOf(path) {
	case SourceHTTP:
		return l.readHTTP(ctx, path)
	case SourceObject:
		if l.objects == nil {
			return nil, errors.New(errors.ErrCodeDatasetSourceInvalid, "s3:// path configured without object storage").WithDetail(path)
		}
		ref, err := minio.ParseObjectURL(path)
		if err != nil {
			return nil, err
		}
		return l.objects.ReadObject(ctx, ref)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatasetLoadFailed, "failed to read dataset file").WithDetail(path)
		}
		return data, nil
	}
}

func (l *Loader) readHTTP(ctx context.Context, url string) ([]byte, error) {
	timeout := l.fetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetSourceInvalid, "invalid dataset url").WithDetail(url)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetLoadFailed, "failed to fetch dataset").WithDetail(url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeDatasetLoadFailed, "failed to fetch dataset").
			WithDetail(fmt.Sprintf("%s: unexpected status %d", url, resp.StatusCode))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxHTTPBody+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetLoadFailed, "failed to read dataset response").WithDetail(url)
	}
	if len(data) > maxHTTPBody {
		return nil, errors.New(errors.ErrCodeDatasetMalformed, "dataset response exceeds size limit").WithDetail(url)
	}
	return data, nil
}

//Personal.AI order the ending
