package handlers

import (
	"net/http"

	"github.com/bitwharf/bucketeer/internal/models"
	"github.com/bitwharf/bucketeer/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ConnectionsHandler exposes the saved named-connection list.
type ConnectionsHandler struct {
	store *services.ConnectionStore
	log   zerolog.Logger
}

func NewConnectionsHandler(store *services.ConnectionStore, log zerolog.Logger) *ConnectionsHandler {
	return &ConnectionsHandler{store: store, log: log}
}

// List returns every saved connection.
func (h *ConnectionsHandler) List(c echo.Context) error {
	list, err := h.store.Load()
	if err != nil {
		h.log.Error().Err(err).Msg("loading saved connections failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "loading saved connections failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"connections": list})
}

// Save upserts one connection: an entry with a matching id is replaced,
// anything else is appended under a fresh id.
func (h *ConnectionsHandler) Save(c echo.Context) error {
	var conn models.SavedConnection
	if err := c.Bind(&conn); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if conn.Name == "" || conn.Endpoint == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and endpoint are required")
	}

	saved, err := h.store.Upsert(conn)
	if err != nil {
		h.log.Error().Err(err).Msg("saving connection failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "saving connection failed")
	}
	return c.JSON(http.StatusOK, saved)
}

// Delete removes one saved connection by id.
func (h *ConnectionsHandler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Param("id")); err != nil {
		h.log.Error().Err(err).Msg("deleting connection failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "deleting connection failed")
	}
	return c.NoContent(http.StatusNoContent)
}
