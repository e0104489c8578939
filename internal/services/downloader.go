package services

import (
	"context"
	"io"
	"path"

	"github.com/bitwharf/bucketeer/internal/models"
	"github.com/minio/minio-go/v7"
)

// DownloadObject fetches one object into memory: a single round-trip, then
// an in-memory-to-file handoff by the caller.
func DownloadObject(ctx context.Context, store StoreClient, bucket, key string) (models.Download, error) {
	rc, info, err := store.GetObjectReader(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return models.Download{}, wrapErr(KindDownload, "get "+bucket+"/"+key+" failed", err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return models.Download{}, wrapErr(KindDownload, "read "+bucket+"/"+key+" failed", err)
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return models.Download{
		FileName:    path.Base(key),
		ContentType: contentType,
		Data:        data,
	}, nil
}
