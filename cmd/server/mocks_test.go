package main

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/bitwharf/bucketeer/internal/services"
	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

// MockStore implements services.StoreClient for journey tests
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]minio.BucketInfo), args.Error(1)
}

func (m *MockStore) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucket, opts)
	return args.Error(0)
}

func (m *MockStore) RemoveBucket(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

func (m *MockStore) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) ([]minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]minio.ObjectInfo), args.Error(1)
}

func (m *MockStore) ListPage(ctx context.Context, bucket string, opts services.ListPageOptions) (services.ListPage, error) {
	args := m.Called(ctx, bucket, opts)
	return args.Get(0).(services.ListPage), args.Error(1)
}

func (m *MockStore) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucket, key, reader, size, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockStore) GetObjectReader(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, key, opts)
	if args.Get(0) == nil {
		return nil, minio.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(minio.ObjectInfo), args.Error(2)
}

func (m *MockStore) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, key, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *MockStore) RemoveObjects(ctx context.Context, bucket string, keys []string) []minio.RemoveObjectError {
	args := m.Called(ctx, bucket, keys)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]minio.RemoveObjectError)
}

func (m *MockStore) PresignedGetObject(ctx context.Context, bucket, key string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucket, key, expires, reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*url.URL), args.Error(1)
}

// MockAdmin implements services.AdminClient for journey tests
type MockAdmin struct {
	mock.Mock
}

func (m *MockAdmin) DataUsageInfo(ctx context.Context) (madmin.DataUsageInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(madmin.DataUsageInfo), args.Error(1)
}

// MockFactory implements services.StoreFactory for journey tests
type MockFactory struct {
	mock.Mock
}

func (m *MockFactory) NewClient(params services.Params) (services.StoreClient, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(services.StoreClient), args.Error(1)
}

func (m *MockFactory) NewAdminClient(params services.Params) (services.AdminClient, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(services.AdminClient), args.Error(1)
}
