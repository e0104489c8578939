package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bitwharf/bucketeer/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// TransferHandler drives uploads and the bulk delete pipeline.
type TransferHandler struct {
	sessions *services.Manager
	nav      *services.Navigator
	tracker  *services.UploadTracker
	notify   services.Notifier
	log      zerolog.Logger
}

func NewTransferHandler(sessions *services.Manager, nav *services.Navigator, tracker *services.UploadTracker, notify services.Notifier, log zerolog.Logger) *TransferHandler {
	return &TransferHandler{sessions: sessions, nav: nav, tracker: tracker, notify: notify, log: log}
}

// Upload starts one concurrent task per submitted file, targeting
// prefix + fileName, and waits for all of them to settle. Tasks do not
// affect each other; progress is observable through Tasks while the
// transfers run. The listing is refreshed once when at least one task
// succeeded and the navigator still points at the same context.
func (h *TransferHandler) Upload(c echo.Context) error {
	sess, err := SessionFromContext(c)
	if err != nil {
		return err
	}

	bucket, prefix := h.nav.Context()
	if bucket == "" {
		return echo.NewHTTPError(http.StatusConflict, "no bucket selected")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no files uploaded")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files uploaded")
	}

	type result struct {
		FileName string `json:"fileName"`
		Error    string `json:"error,omitempty"`
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		results   []result
		succeeded int
	)

	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			mu.Lock()
			results = append(results, result{FileName: fh.Filename, Error: err.Error()})
			mu.Unlock()
			continue
		}

		wg.Add(1)
		name := fh.Filename
		h.tracker.Start(c.Request().Context(), sess.Store(), bucket, prefix, services.UploadSpec{
			FileName:    name,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        src,
		}, func(id string, taskErr error) {
			defer wg.Done()
			_ = src.Close()

			mu.Lock()
			defer mu.Unlock()
			if taskErr != nil {
				results = append(results, result{FileName: name, Error: taskErr.Error()})
				h.notify.Notify("upload of "+name+" failed", services.SeverityError)
				return
			}
			succeeded++
			results = append(results, result{FileName: name})
		})
	}

	wg.Wait()

	if succeeded > 0 {
		h.refreshIfCurrent(sess, bucket, prefix)
		h.notify.Notify(fmt.Sprintf("%d file(s) uploaded", succeeded), services.SeveritySuccess)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"uploaded": succeeded,
		"results":  results,
	})
}

// Tasks returns a snapshot of the in-flight uploads.
func (h *TransferHandler) Tasks(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"tasks": h.tracker.Snapshot()})
}

// DeleteSelection resolves the current selection into concrete keys and
// bulk-deletes them. An empty resolution issues no delete calls and reports
// zero deleted. The listing is refreshed afterwards regardless of outcome.
func (h *TransferHandler) DeleteSelection(c echo.Context) error {
	sess, err := SessionFromContext(c)
	if err != nil {
		return err
	}

	bucket, prefix := h.nav.Context()
	if bucket == "" {
		return echo.NewHTTPError(http.StatusConflict, "no bucket selected")
	}
	ctx := c.Request().Context()

	resolved, err := services.ResolveSelection(ctx, sess.Store(), bucket, h.nav.Selection())
	if err != nil {
		h.notify.Notify("resolving selection failed: "+err.Error(), services.SeverityError)
		return httpError(err)
	}

	outcome := services.DeleteKeys(ctx, sess.Store(), bucket, resolved)

	h.nav.ClearSelection()
	h.refreshIfCurrent(sess, bucket, prefix)

	if len(outcome.FailedKeys) > 0 {
		h.notify.Notify(fmt.Sprintf("%d of %d object(s) not deleted", len(outcome.FailedKeys), outcome.Requested), services.SeverityError)
	} else {
		h.notify.Notify(fmt.Sprintf("%d object(s) deleted", outcome.Deleted), services.SeveritySuccess)
	}

	return c.JSON(http.StatusOK, outcome)
}

// refreshIfCurrent re-fetches the listing if the session is still live and
// the navigator still points at the context the operation ran in; a stale
// result is simply dropped.
func (h *TransferHandler) refreshIfCurrent(sess *services.Session, bucket, prefix string) {
	if !h.sessions.IsLive(sess) {
		return
	}
	if curBucket, curPrefix := h.nav.Context(); curBucket != bucket || curPrefix != prefix {
		return
	}
	if _, err := h.nav.ListCurrent(context.Background(), sess.Store()); err != nil {
		h.log.Warn().Err(err).Str("bucket", bucket).Str("prefix", prefix).Msg("refresh after operation failed")
	}
}
