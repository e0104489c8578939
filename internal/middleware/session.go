package middleware

import (
	"net/http"
	"strings"

	"github.com/bitwharf/bucketeer/internal/services"
	"github.com/bitwharf/bucketeer/internal/utils"
	"github.com/labstack/echo/v4"
)

// RequireSession rejects store-facing requests while no session is live and
// stashes the live session in the request context otherwise. Session and
// saved-connection management stays reachable so the user can connect.
func RequireSession(sessions *services.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if path == "/health" ||
				strings.HasPrefix(path, "/api/session") ||
				strings.HasPrefix(path, "/api/connections") {
				return next(c)
			}

			sess := sessions.Current()
			if sess == nil {
				return echo.NewHTTPError(http.StatusConflict, "not connected to a store")
			}

			c.Set(utils.ContextKeySession, sess)
			return next(c)
		}
	}
}
