package handlers

import (
	"fmt"
	"net/http"

	"github.com/bitwharf/bucketeer/internal/models"
	"github.com/bitwharf/bucketeer/internal/services"
	"github.com/bitwharf/bucketeer/internal/utils"
	"github.com/labstack/echo/v4"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
)

// SessionHandler manages the single live store session and the bucket list.
type SessionHandler struct {
	sessions *services.Manager
	nav      *services.Navigator
	factory  services.StoreFactory
	notify   services.Notifier
	log      zerolog.Logger
}

func NewSessionHandler(sessions *services.Manager, nav *services.Navigator, factory services.StoreFactory, notify services.Notifier, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, nav: nav, factory: factory, notify: notify, log: log}
}

// Connect validates the supplied parameters against the store and installs
// the session, discarding all state derived from any previous one.
func (h *SessionHandler) Connect(c echo.Context) error {
	var params services.Params
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid connection parameters")
	}
	if params.Endpoint == "" || params.AccessKey == "" || params.SecretKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "endpoint, accessKey and secretKey are required")
	}

	sess, err := h.sessions.Connect(c.Request().Context(), h.factory, params)
	if err != nil {
		h.log.Warn().Err(err).Str("endpoint", params.Endpoint).Msg("connect failed")
		h.notify.Notify("connection failed: "+err.Error(), services.SeverityError)
		return httpError(err)
	}

	// Buckets, listing, selection and filter of the old session are gone.
	h.nav.Reset()

	h.log.Info().Str("endpoint", params.Endpoint).Msg("connected")
	h.notify.Notify("connected to "+params.Endpoint, services.SeveritySuccess)
	return c.JSON(http.StatusOK, map[string]any{
		"connected": true,
		"endpoint":  sess.Params().Endpoint,
	})
}

// Disconnect drops the session handle. In-flight transfers are not
// cancelled; their results are discarded on settlement.
func (h *SessionHandler) Disconnect(c echo.Context) error {
	h.sessions.Disconnect()
	h.nav.Reset()
	h.log.Info().Msg("disconnected")
	return c.JSON(http.StatusOK, map[string]any{"connected": false})
}

// Status reports whether a session is live.
func (h *SessionHandler) Status(c echo.Context) error {
	sess := h.sessions.Current()
	if sess == nil {
		return c.JSON(http.StatusOK, map[string]any{"connected": false})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"connected": true,
		"endpoint":  sess.Params().Endpoint,
	})
}

// ListBuckets fetches the bucket list fresh from the store, enriched with
// usage figures when the admin API responds. Buckets are never cached across
// sessions.
func (h *SessionHandler) ListBuckets(c echo.Context) error {
	sess, err := SessionFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	buckets, err := sess.Store().ListBuckets(ctx)
	if err != nil {
		h.notify.Notify("listing buckets failed", services.SeverityError)
		return httpError(&services.Error{Kind: services.KindListing, Message: "list buckets failed", Cause: err})
	}

	sizes := map[string]uint64{}
	if admin := sess.Admin(); admin != nil {
		// Best effort; plain S3 stores have no admin API.
		if usage, uerr := admin.DataUsageInfo(ctx); uerr == nil {
			sizes = usage.BucketSizes
		}
	}

	entries := make([]models.BucketEntry, 0, len(buckets))
	for _, b := range buckets {
		entries = append(entries, models.BucketEntry{
			Name:          b.Name,
			CreatedAt:     b.CreationDate,
			Size:          sizes[b.Name],
			FormattedSize: utils.FormatBytes(sizes[b.Name]),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"buckets": entries})
}

// CreateBucket makes a new bucket.
func (h *SessionHandler) CreateBucket(c echo.Context) error {
	sess, err := SessionFromContext(c)
	if err != nil {
		return err
	}

	var req struct {
		Name   string `json:"name"`
		Region string `json:"region"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Name) < 3 || len(req.Name) > 63 {
		return echo.NewHTTPError(http.StatusBadRequest, "bucket name must be between 3 and 63 characters")
	}

	if err := sess.Store().MakeBucket(c.Request().Context(), req.Name, minio.MakeBucketOptions{Region: req.Region}); err != nil {
		h.notify.Notify("creating bucket failed: "+err.Error(), services.SeverityError)
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("create bucket %s failed", req.Name))
	}

	h.notify.Notify("bucket "+req.Name+" created", services.SeveritySuccess)
	return c.JSON(http.StatusCreated, map[string]any{"name": req.Name})
}

// DeleteBucket removes a bucket. If the navigator was inside it, the
// context falls back to the bucket list.
func (h *SessionHandler) DeleteBucket(c echo.Context) error {
	sess, err := SessionFromContext(c)
	if err != nil {
		return err
	}

	name := c.Param("bucketName")
	if err := sess.Store().RemoveBucket(c.Request().Context(), name); err != nil {
		h.notify.Notify("deleting bucket failed: "+err.Error(), services.SeverityError)
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("delete bucket %s failed", name))
	}

	if bucket, _ := h.nav.Context(); bucket == name {
		h.nav.SetContext("", "")
	}

	h.notify.Notify("bucket "+name+" deleted", services.SeveritySuccess)
	return c.NoContent(http.StatusNoContent)
}
