package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bitwharf/bucketeer/internal/models"
	"github.com/bitwharf/bucketeer/internal/services"
	"github.com/bitwharf/bucketeer/internal/utils"
	"github.com/labstack/echo/v4"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
)

// BrowserHandler exposes the namespace navigator: listings, breadcrumbs,
// selection, filtering, folder markers, object info and downloads.
type BrowserHandler struct {
	nav    *services.Navigator
	notify services.Notifier
	log    zerolog.Logger
}

func NewBrowserHandler(nav *services.Navigator, notify services.Notifier, log zerolog.Logger) *BrowserHandler {
	return &BrowserHandler{nav: nav, notify: notify, log: log}
}

// browseResponse is the view the presentation layer renders from.
func (h *BrowserHandler) browseResponse(c echo.Context) error {
	bucket, prefix := h.nav.Context()
	return c.JSON(http.StatusOK, map[string]any{
		"bucket":      bucket,
		"prefix":      prefix,
		"breadcrumbs": h.nav.Breadcrumbs(),
		"entries":     h.nav.VisibleEntries(),
		"query":       h.nav.Query(),
		"selection":   h.nav.Selection(),
	})
}

// Browse moves the navigator to the requested (bucket, prefix) and returns
// a fresh listing. Moving to a new context drops the selection and filter.
func (h *BrowserHandler) Browse(c echo.Context) error {
	sess, err := SessionFromContext(c)
	if err != nil {
		return err
	}

	bucket := c.QueryParam("bucket")
	prefix := c.QueryParam("prefix")
	h.nav.SetContext(bucket, prefix)

	if bucket == "" {
		return h.browseResponse(c)
	}

	if _, err := h.nav.ListCurrent(c.Request().Context(), sess.Store()); err != nil {
		h.notify.Notify("listing failed: "+err.Error(), services.SeverityError)
		return httpError(err)
	}
	return h.browseResponse(c)
}

// NavigateBreadcrumb jumps to one of the derived path segments.
func (h *BrowserHandler) NavigateBreadcrumb(c echo.Context) error {
	sess, err := SessionFromContext(c)
	if err != nil {
		return err
	}

	var req struct {
		Index int `json:"index"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.nav.NavigateBreadcrumb(req.Index); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if bucket, _ := h.nav.Context(); bucket != "" {
		if _, err := h.nav.ListCurrent(c.Request().Context(), sess.Store()); err != nil {
			h.notify.Notify("listing failed: "+err.Error(), services.SeverityError)
			return httpError(err)
		}
	}
	return h.browseResponse(c)
}

// Refresh re-fetches the current listing without moving the context.
func (h *BrowserHandler) Refresh(c echo.Context) error {
	sess, err := SessionFromContext(c)
	if err != nil {
		return err
	}
	if bucket, _ := h.nav.Context(); bucket != "" {
		if _, err := h.nav.ListCurrent(c.Request().Context(), sess.Store()); err != nil {
			h.notify.Notify("listing failed: "+err.Error(), services.SeverityError)
			return httpError(err)
		}
	}
	return h.browseResponse(c)
}

// SetFilter replaces the client-side filter query.
func (h *BrowserHandler) SetFilter(c echo.Context) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	h.nav.SetQuery(req.Query)
	return h.browseResponse(c)
}

// Select toggles one key of the current listing in or out of the selection.
func (h *BrowserHandler) Select(c echo.Context) error {
	var req struct {
		Key      string `json:"key"`
		Selected bool   `json:"selected"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.nav.Select(req.Key, req.Selected); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"selection": h.nav.Selection()})
}

// ClearSelection empties the selection set.
func (h *BrowserHandler) ClearSelection(c echo.Context) error {
	h.nav.ClearSelection()
	return c.JSON(http.StatusOK, map[string]any{"selection": []string{}})
}

// CreateFolder writes a zero-byte marker object so an empty "folder" shows
// up in delimited listings.
func (h *BrowserHandler) CreateFolder(c echo.Context) error {
	sess, err := SessionFromContext(c)
	if err != nil {
		return err
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "folder name is required")
	}

	bucket, prefix := h.nav.Context()
	if bucket == "" {
		return echo.NewHTTPError(http.StatusConflict, "no bucket selected")
	}

	name := req.Name
	if !strings.HasSuffix(name, "/") {
		name += "/"
	}
	key := prefix + name

	if _, err := sess.Store().PutObject(c.Request().Context(), bucket, key, strings.NewReader(""), 0, minio.PutObjectOptions{}); err != nil {
		h.notify.Notify("creating folder failed: "+err.Error(), services.SeverityError)
		return echo.NewHTTPError(http.StatusBadGateway, "create folder failed")
	}

	if _, err := h.nav.ListCurrent(c.Request().Context(), sess.Store()); err != nil {
		h.log.Warn().Err(err).Msg("refresh after folder create failed")
	}
	h.notify.Notify("folder "+key+" created", services.SeveritySuccess)
	return h.browseResponse(c)
}

// ObjectInfo stats a single object.
func (h *BrowserHandler) ObjectInfo(c echo.Context) error {
	sess, err := SessionFromContext(c)
	if err != nil {
		return err
	}

	key := c.QueryParam("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "object key is required")
	}
	bucket, _ := h.nav.Context()
	if bucket == "" {
		return echo.NewHTTPError(http.StatusConflict, "no bucket selected")
	}

	info, err := sess.Store().StatObject(c.Request().Context(), bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "object not found")
	}

	return c.JSON(http.StatusOK, models.ObjectStat{
		Key:           info.Key,
		Size:          info.Size,
		FormattedSize: utils.FormatFileSize(info.Size),
		ContentType:   info.ContentType,
		ETag:          info.ETag,
		LastModified:  info.LastModified,
	})
}

// ShareLink produces a presigned GET URL with a bounded expiry.
func (h *BrowserHandler) ShareLink(c echo.Context) error {
	sess, err := SessionFromContext(c)
	if err != nil {
		return err
	}

	var req struct {
		Key           string `json:"key"`
		ExpirySeconds int64  `json:"expirySeconds"`
	}
	if err := c.Bind(&req); err != nil || req.Key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "object key is required")
	}
	bucket, _ := h.nav.Context()
	if bucket == "" {
		return echo.NewHTTPError(http.StatusConflict, "no bucket selected")
	}

	expires := time.Hour
	if req.ExpirySeconds > 0 {
		expires = time.Duration(req.ExpirySeconds) * time.Second
		if expires > 7*24*time.Hour {
			expires = 7 * 24 * time.Hour
		}
	}

	shareURL, err := sess.Store().PresignedGetObject(c.Request().Context(), bucket, req.Key, expires, nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "generate share link failed")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"url":       shareURL.String(),
		"expiresAt": time.Now().Add(expires),
	})
}

// Download buffers the object and hands it over as an attachment.
func (h *BrowserHandler) Download(c echo.Context) error {
	sess, err := SessionFromContext(c)
	if err != nil {
		return err
	}

	key := c.QueryParam("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "object key is required")
	}
	bucket, _ := h.nav.Context()
	if bucket == "" {
		return echo.NewHTTPError(http.StatusConflict, "no bucket selected")
	}

	dl, err := services.DownloadObject(c.Request().Context(), sess.Store(), bucket, key)
	if err != nil {
		h.notify.Notify("download failed: "+err.Error(), services.SeverityError)
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+dl.FileName+`"`)
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(dl.Data)))
	return c.Blob(http.StatusOK, dl.ContentType, dl.Data)
}
