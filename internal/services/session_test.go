package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{Endpoint: "play.minio.io:9000", AccessKey: "admin", SecretKey: "password"}
}

func TestConnectProbesStoreWithBucketListing(t *testing.T) {
	factory := new(MockFactory)
	store := new(MockStore)
	admin := new(MockAdmin)
	params := testParams()

	factory.On("NewClient", params).Return(store, nil)
	factory.On("NewAdminClient", params).Return(admin, nil)
	store.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{
		{Name: "bucket-1", CreationDate: time.Now()},
	}, nil)

	sess, err := Connect(context.Background(), factory, params)

	require.NoError(t, err)
	assert.Equal(t, params, sess.Params())
	assert.NotNil(t, sess.Store())
	assert.NotNil(t, sess.Admin())
	store.AssertCalled(t, "ListBuckets", mock.Anything)
}

func TestConnectClassifiesCredentialFailure(t *testing.T) {
	factory := new(MockFactory)
	store := new(MockStore)
	params := testParams()

	factory.On("NewClient", params).Return(store, nil)
	store.On("ListBuckets", mock.Anything).Return(nil, minio.ErrorResponse{Code: "InvalidAccessKeyId", Message: "key unknown"})

	_, err := Connect(context.Background(), factory, params)

	require.Error(t, err)
	assert.True(t, IsAuthFailure(err))
	assert.False(t, IsNetworkFailure(err))
}

func TestConnectClassifiesNetworkFailure(t *testing.T) {
	factory := new(MockFactory)
	store := new(MockStore)
	params := testParams()

	factory.On("NewClient", params).Return(store, nil)
	store.On("ListBuckets", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	_, err := Connect(context.Background(), factory, params)

	require.Error(t, err)
	assert.True(t, IsNetworkFailure(err))
	assert.False(t, IsAuthFailure(err))
}

func TestConnectToleratesMissingAdminAPI(t *testing.T) {
	factory := new(MockFactory)
	store := new(MockStore)
	params := testParams()

	factory.On("NewClient", params).Return(store, nil)
	factory.On("NewAdminClient", params).Return(nil, errors.New("no admin endpoint"))
	store.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)

	sess, err := Connect(context.Background(), factory, params)

	require.NoError(t, err)
	assert.Nil(t, sess.Admin())
}

func TestManagerReconnectReplacesSession(t *testing.T) {
	factory := new(MockFactory)
	store := new(MockStore)
	admin := new(MockAdmin)
	factory.On("NewClient", mock.Anything).Return(store, nil)
	factory.On("NewAdminClient", mock.Anything).Return(admin, nil)
	store.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)

	m := NewManager()
	first, err := m.Connect(context.Background(), factory, testParams())
	require.NoError(t, err)
	require.True(t, m.IsLive(first))

	second, err := m.Connect(context.Background(), factory, Params{Endpoint: "other:9000", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)

	assert.False(t, m.IsLive(first))
	assert.True(t, m.IsLive(second))
	assert.Same(t, second, m.Current())
}

func TestManagerDisconnectDropsHandle(t *testing.T) {
	factory := new(MockFactory)
	store := new(MockStore)
	admin := new(MockAdmin)
	factory.On("NewClient", mock.Anything).Return(store, nil)
	factory.On("NewAdminClient", mock.Anything).Return(admin, nil)
	store.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)

	m := NewManager()
	sess, err := m.Connect(context.Background(), factory, testParams())
	require.NoError(t, err)

	m.Disconnect()

	assert.Nil(t, m.Current())
	assert.False(t, m.IsLive(sess))
}
