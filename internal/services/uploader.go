package services

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/bitwharf/bucketeer/internal/models"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// UploadSpec describes one local file to upload.
type UploadSpec struct {
	FileName    string
	ContentType string
	Size        int64 // -1 when unknown
	Body        io.Reader
}

// UploadTracker runs one transfer task per file and tracks its lifecycle.
// Tasks run concurrently with each other; there is no queueing or
// throttling. A settled task (success or failure) is removed from the
// tracked set — it is not a history record — and the failure of one task
// never affects its siblings. Presentation reads snapshots only.
type UploadTracker struct {
	mu    sync.Mutex
	tasks map[string]*uploadTask
}

type uploadTask struct {
	id        string
	fileName  string
	targetKey string
	progress  int
	terminal  bool
}

func NewUploadTracker() *UploadTracker {
	return &UploadTracker{tasks: make(map[string]*uploadTask)}
}

// Start registers a task for spec and begins transferring immediately. The
// target key is prefix + fileName; a collision with an existing key silently
// overwrites, which is store semantics, not an error. onSettled, when
// non-nil, is invoked exactly once after the task has been removed, with a
// nil error on success.
func (t *UploadTracker) Start(ctx context.Context, store StoreClient, bucket, prefix string, spec UploadSpec, onSettled func(id string, err error)) string {
	task := &uploadTask{
		id:        uuid.NewString(),
		fileName:  spec.FileName,
		targetKey: prefix + spec.FileName,
	}

	t.mu.Lock()
	t.tasks[task.id] = task
	t.mu.Unlock()

	go func() {
		body := &progressReader{
			r:     spec.Body,
			total: spec.Size,
			report: func(pct int) {
				t.setProgress(task.id, pct)
			},
		}

		_, err := store.PutObject(ctx, bucket, task.targetKey, body, spec.Size, minio.PutObjectOptions{
			ContentType: spec.ContentType,
		})
		if err != nil {
			err = wrapErr(KindUpload, "upload "+task.targetKey+" failed", err)
		}

		t.mu.Lock()
		task.terminal = true
		if err == nil {
			task.progress = 100
		}
		delete(t.tasks, task.id)
		t.mu.Unlock()

		if onSettled != nil {
			onSettled(task.id, err)
		}
	}()

	return task.id
}

// setProgress records a new percentage for a task. Progress never moves
// backwards even if the transport re-reads the body on an internal retry.
func (t *UploadTracker) setProgress(id string, pct int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if task, ok := t.tasks[id]; ok && pct > task.progress {
		task.progress = pct
	}
}

// Snapshot returns the active tasks, ordered by file name then id.
func (t *UploadTracker) Snapshot() []models.UploadTask {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.UploadTask, 0, len(t.tasks))
	for _, task := range t.tasks {
		out = append(out, models.UploadTask{
			ID:        task.id,
			FileName:  task.fileName,
			TargetKey: task.targetKey,
			Progress:  task.progress,
			Terminal:  task.terminal,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FileName != out[j].FileName {
			return out[i].FileName < out[j].FileName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// progressReader reports bytes-read over total as a clamped percentage.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	report func(pct int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report(progressPercent(p.read, p.total))
	}
	return n, err
}

// progressPercent maps read/total to 0..100, defaulting to 0 while the total
// is unknown.
func progressPercent(read, total int64) int {
	if total <= 0 {
		return 0
	}
	pct := int(read * 100 / total)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
