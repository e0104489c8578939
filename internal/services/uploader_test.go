package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStartTransfersAndRemovesSettledTask(t *testing.T) {
	store := new(MockStore)
	tracker := NewUploadTracker()
	settled := make(chan error, 1)

	store.On("PutObject", mock.Anything, "media", "docs/report.pdf", mock.Anything, int64(4),
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "application/pdf"
		})).
		Run(func(args mock.Arguments) {
			_, _ = io.Copy(io.Discard, args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{}, nil).Once()

	id := tracker.Start(context.Background(), store, "media", "docs/", UploadSpec{
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		Size:        4,
		Body:        strings.NewReader("data"),
	}, func(_ string, err error) { settled <- err })

	require.NoError(t, <-settled)
	assert.NotEmpty(t, id)
	assert.Empty(t, tracker.Snapshot())
	store.AssertExpectations(t)
}

func TestConcurrentTasksSettleIndependently(t *testing.T) {
	store := new(MockStore)
	tracker := NewUploadTracker()
	release := make(chan struct{})
	type result struct {
		id  string
		err error
	}
	settled := make(chan result, 2)
	onSettled := func(id string, err error) { settled <- result{id, err} }

	store.On("PutObject", mock.Anything, "media", "slow.bin", mock.Anything, int64(4), mock.Anything).
		Run(func(args mock.Arguments) {
			_, _ = io.Copy(io.Discard, args.Get(3).(io.Reader))
			<-release
		}).
		Return(minio.UploadInfo{}, nil).Once()
	store.On("PutObject", mock.Anything, "media", "bad.bin", mock.Anything, int64(4), mock.Anything).
		Return(minio.UploadInfo{}, errors.New("quota exceeded")).Once()

	slowID := tracker.Start(context.Background(), store, "media", "", UploadSpec{
		FileName: "slow.bin", Size: 4, Body: strings.NewReader("data"),
	}, onSettled)
	badID := tracker.Start(context.Background(), store, "media", "", UploadSpec{
		FileName: "bad.bin", Size: 4, Body: strings.NewReader("data"),
	}, onSettled)

	first := <-settled
	assert.Equal(t, badID, first.id)
	require.Error(t, first.err)
	assert.Equal(t, KindUpload, KindOf(first.err))

	// The failure did not touch the sibling task.
	snap := tracker.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, slowID, snap[0].ID)
	assert.False(t, snap[0].Terminal)

	close(release)
	second := <-settled
	assert.Equal(t, slowID, second.id)
	assert.NoError(t, second.err)
	assert.Empty(t, tracker.Snapshot())
}

func TestProgressIsObservableMidTransfer(t *testing.T) {
	store := new(MockStore)
	tracker := NewUploadTracker()
	readHalf := make(chan struct{})
	release := make(chan struct{})
	settled := make(chan struct{})

	store.On("PutObject", mock.Anything, "media", "big.bin", mock.Anything, int64(100), mock.Anything).
		Run(func(args mock.Arguments) {
			r := args.Get(3).(io.Reader)
			_, _ = io.ReadFull(r, make([]byte, 50))
			close(readHalf)
			<-release
			_, _ = io.Copy(io.Discard, r)
		}).
		Return(minio.UploadInfo{}, nil).Once()

	tracker.Start(context.Background(), store, "media", "", UploadSpec{
		FileName: "big.bin", Size: 100, Body: bytes.NewReader(make([]byte, 100)),
	}, func(string, error) { close(settled) })

	<-readHalf
	snap := tracker.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 50, snap[0].Progress)
	assert.Equal(t, "big.bin", snap[0].TargetKey)

	close(release)
	<-settled
	assert.Empty(t, tracker.Snapshot())
}

func TestProgressNeverMovesBackwards(t *testing.T) {
	tracker := NewUploadTracker()
	task := &uploadTask{id: "t1"}
	tracker.tasks["t1"] = task

	tracker.setProgress("t1", 40)
	tracker.setProgress("t1", 25)
	assert.Equal(t, 40, task.progress)

	tracker.setProgress("t1", 90)
	assert.Equal(t, 90, task.progress)
}

func TestProgressPercentClamps(t *testing.T) {
	assert.Equal(t, 0, progressPercent(10, -1))
	assert.Equal(t, 0, progressPercent(10, 0))
	assert.Equal(t, 0, progressPercent(0, 10))
	assert.Equal(t, 50, progressPercent(5, 10))
	assert.Equal(t, 100, progressPercent(15, 10))
}
