package handlers

import (
	"errors"
	"net/http"

	"github.com/bitwharf/bucketeer/internal/services"
	"github.com/bitwharf/bucketeer/internal/utils"
	"github.com/labstack/echo/v4"
	"github.com/minio/minio-go/v7"
)

// SessionFromContext retrieves the live session placed by the session
// middleware.
func SessionFromContext(c echo.Context) (*services.Session, error) {
	val := c.Get(utils.ContextKeySession)
	sess, ok := val.(*services.Session)
	if !ok || sess == nil {
		return nil, echo.NewHTTPError(http.StatusConflict, "not connected to a store")
	}
	return sess, nil
}

// httpError converts a service error into an echo HTTP error, preserving the
// remediation-relevant distinction between credential and network failures.
func httpError(err error) *echo.HTTPError {
	switch services.KindOf(err) {
	case services.KindConnectionAuth:
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case services.KindConnectionNetwork:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	case services.KindDownload:
		var serr *services.Error
		if errors.As(err, &serr) && minio.ToErrorResponse(serr.Cause).Code == "NoSuchKey" {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
}
