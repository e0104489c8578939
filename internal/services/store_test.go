package services

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingChannel(objs ...minio.ObjectInfo) chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(objs))
	for _, obj := range objs {
		ch <- obj
	}
	close(ch)
	return ch
}

func TestCollectPageUnderMaxKeysIsNotTruncated(t *testing.T) {
	ch := listingChannel(
		minio.ObjectInfo{Key: "a"},
		minio.ObjectInfo{Key: "b"},
	)

	page, err := collectPage(ch, 5)

	require.NoError(t, err)
	assert.Len(t, page.Objects, 2)
	assert.False(t, page.IsTruncated)
	assert.Empty(t, page.NextContinuationToken)
}

func TestCollectPageLeavesRemainderUnread(t *testing.T) {
	ch := listingChannel(
		minio.ObjectInfo{Key: "a"},
		minio.ObjectInfo{Key: "b"},
		minio.ObjectInfo{Key: "c"},
		minio.ObjectInfo{Key: "d"},
	)

	page, err := collectPage(ch, 3)

	require.NoError(t, err)
	assert.Len(t, page.Objects, 3)
	assert.True(t, page.IsTruncated)
	assert.Equal(t, "c", page.NextContinuationToken)

	// Entries past the page boundary stay in the channel; the caller cancels
	// the listing rather than draining it.
	rest, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, "d", rest.Key)
}

func TestCollectPagePropagatesListingError(t *testing.T) {
	ch := listingChannel(
		minio.ObjectInfo{Key: "a"},
		minio.ObjectInfo{Err: errors.New("listing interrupted")},
	)

	_, err := collectPage(ch, 5)

	assert.Error(t, err)
}
