package services

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultPageSize is the number of keys fetched per page of a paginated
// listing.
const DefaultPageSize = 1000

// ListPageOptions controls one page of a paginated flat listing.
type ListPageOptions struct {
	Prefix            string
	Recursive         bool
	MaxKeys           int
	ContinuationToken string
}

// ListPage is one page of results. NextContinuationToken is set only when
// IsTruncated is true.
type ListPage struct {
	Objects               []minio.ObjectInfo
	IsTruncated           bool
	NextContinuationToken string
}

// StoreClient is the store protocol surface the session engine consumes.
// Keeping it an interface lets tests substitute the whole store.
type StoreClient interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	RemoveBucket(ctx context.Context, bucket string) error

	// ListObjects performs a delimited (or flat, when opts.Recursive) listing
	// and drains the result into a slice.
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) ([]minio.ObjectInfo, error)

	// ListPage fetches a single page of a flat listing; callers drive the
	// continuation loop themselves.
	ListPage(ctx context.Context, bucket string, opts ListPageOptions) (ListPage, error)

	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObjectReader(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, minio.ObjectInfo, error)
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)

	// RemoveObjects issues one batched delete for keys and returns the
	// per-key failures reported by the store. An empty result means every
	// key was confirmed deleted.
	RemoveObjects(ctx context.Context, bucket string, keys []string) []minio.RemoveObjectError

	PresignedGetObject(ctx context.Context, bucket, key string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// AdminClient is the admin API surface used for storage usage figures.
// Only available on MinIO deployments; callers degrade gracefully without it.
type AdminClient interface {
	DataUsageInfo(ctx context.Context) (madmin.DataUsageInfo, error)
}

// StoreFactory creates clients for a set of connection parameters.
type StoreFactory interface {
	NewClient(params Params) (StoreClient, error)
	NewAdminClient(params Params) (AdminClient, error)
}

// wrappedClient adapts *minio.Client to StoreClient.
type wrappedClient struct {
	client *minio.Client
}

func (c *wrappedClient) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	return c.client.ListBuckets(ctx)
}

func (c *wrappedClient) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return c.client.MakeBucket(ctx, bucket, opts)
}

func (c *wrappedClient) RemoveBucket(ctx context.Context, bucket string) error {
	return c.client.RemoveBucket(ctx, bucket)
}

func (c *wrappedClient) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) ([]minio.ObjectInfo, error) {
	var objects []minio.ObjectInfo
	for obj := range c.client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (c *wrappedClient) ListPage(ctx context.Context, bucket string, opts ListPageOptions) (ListPage, error) {
	maxKeys := opts.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultPageSize
	}

	minioOpts := minio.ListObjectsOptions{
		Prefix:    opts.Prefix,
		Recursive: opts.Recursive,
	}
	// Marker-based continuation: the token is the last key of the previous
	// page.
	if opts.ContinuationToken != "" {
		minioOpts.StartAfter = opts.ContinuationToken
	}

	// Cancelling once the page is full releases the producer goroutine
	// inside minio-go instead of leaving it blocked on the channel.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	return collectPage(c.client.ListObjects(ctx, bucket, minioOpts), maxKeys)
}

// collectPage drains at most maxKeys entries from a listing channel into one
// page. A full page is marked truncated with the last key as its token.
func collectPage(objects <-chan minio.ObjectInfo, maxKeys int) (ListPage, error) {
	var page ListPage
	for obj := range objects {
		if obj.Err != nil {
			return ListPage{}, obj.Err
		}
		page.Objects = append(page.Objects, obj)
		if len(page.Objects) >= maxKeys {
			page.IsTruncated = true
			page.NextContinuationToken = obj.Key
			break
		}
	}
	return page, nil
}

func (c *wrappedClient) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return c.client.PutObject(ctx, bucket, key, reader, size, opts)
}

func (c *wrappedClient) GetObjectReader(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, minio.ObjectInfo, error) {
	obj, err := c.client.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return nil, minio.ObjectInfo{}, err
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, minio.ObjectInfo{}, err
	}
	return obj, info, nil
}

func (c *wrappedClient) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return c.client.StatObject(ctx, bucket, key, opts)
}

func (c *wrappedClient) RemoveObjects(ctx context.Context, bucket string, keys []string) []minio.RemoveObjectError {
	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		objectsCh <- minio.ObjectInfo{Key: k}
	}
	close(objectsCh)

	var failed []minio.RemoveObjectError
	for rerr := range c.client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		failed = append(failed, rerr)
	}
	return failed
}

func (c *wrappedClient) PresignedGetObject(ctx context.Context, bucket, key string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	return c.client.PresignedGetObject(ctx, bucket, key, expires, reqParams)
}

// MinioFactory is the production StoreFactory.
type MinioFactory struct{}

func (f *MinioFactory) NewClient(params Params) (StoreClient, error) {
	client, err := minio.New(params.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(params.AccessKey, params.SecretKey, ""),
		Secure: params.UseSSL,
		Region: params.Region,
		// Path-style addressing keeps non-AWS endpoints working without
		// wildcard DNS.
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, err
	}
	return &wrappedClient{client: client}, nil
}

func (f *MinioFactory) NewAdminClient(params Params) (AdminClient, error) {
	return madmin.NewWithOptions(params.Endpoint, &madmin.Options{
		Creds:  credentials.NewStaticV4(params.AccessKey, params.SecretKey, ""),
		Secure: params.UseSSL,
	})
}
