package services

import (
	"context"
	"sort"

	"github.com/bitwharf/bucketeer/internal/models"
)

// DeleteBatchSize is the per-request key cap of the batched delete API.
const DeleteBatchSize = 1000

// DeleteKeys deletes the resolved key set in sequential chunks of at most
// DeleteBatchSize, continuing past chunk failures rather than aborting. The
// outcome reports the requested count, the confirmed-deleted count, and
// every key the store failed to delete. A failure entry without a key name
// is a chunk-level transport failure and marks the whole chunk failed.
//
// An empty key set issues zero store calls. Callers refresh the listing
// afterwards; entries are never surgically removed from the in-memory view.
func DeleteKeys(ctx context.Context, store StoreClient, bucket string, keys map[string]struct{}) models.DeleteOutcome {
	outcome := models.DeleteOutcome{Requested: len(keys)}
	if len(keys) == 0 {
		return outcome
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for start := 0; start < len(sorted); start += DeleteBatchSize {
		end := min(start+DeleteBatchSize, len(sorted))
		chunk := sorted[start:end]

		failed := store.RemoveObjects(ctx, bucket, chunk)

		wholeChunkFailed := false
		failedInChunk := make(map[string]bool, len(failed))
		for _, f := range failed {
			if f.ObjectName == "" {
				wholeChunkFailed = true
				break
			}
			failedInChunk[f.ObjectName] = true
		}

		if wholeChunkFailed {
			outcome.FailedKeys = append(outcome.FailedKeys, chunk...)
			continue
		}
		for _, k := range chunk {
			if failedInChunk[k] {
				outcome.FailedKeys = append(outcome.FailedKeys, k)
			} else {
				outcome.Deleted++
			}
		}
	}

	return outcome
}
