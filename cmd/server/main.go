package main

import (
	"net/http"
	"os"

	"github.com/bitwharf/bucketeer/internal/config"
	"github.com/bitwharf/bucketeer/internal/handlers"
	"github.com/bitwharf/bucketeer/internal/logger"
	customMiddleware "github.com/bitwharf/bucketeer/internal/middleware"
	"github.com/bitwharf/bucketeer/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load(os.Getenv("BUCKETEER_CONFIG"))
	if err != nil {
		errLog := logger.New(os.Stderr, "error", "console")
		errLog.Fatal().Err(err).Msg("loading configuration failed")
	}

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	e := newServer(cfg, log, &services.MinioFactory{})

	log.Info().Str("listen", cfg.Listen).Msg("starting server")
	if err := e.Start(cfg.Listen); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newServer(cfg config.Config, log zerolog.Logger, factory services.StoreFactory) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Core state: one live session, one navigator context, one task set.
	sessions := services.NewManager()
	nav := services.NewNavigator()
	tracker := services.NewUploadTracker()
	connections := services.NewConnectionStore(cfg.ConnectionsFile)
	notifier := &services.LogNotifier{Log: log}

	sessionHandler := handlers.NewSessionHandler(sessions, nav, factory, notifier, log)
	browserHandler := handlers.NewBrowserHandler(nav, notifier, log)
	transferHandler := handlers.NewTransferHandler(sessions, nav, tracker, notifier, log)
	connectionsHandler := handlers.NewConnectionsHandler(connections, log)

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(customMiddleware.SecurityHeaders())
	// Applied globally; it skips session and connection management itself.
	e.Use(customMiddleware.RequireSession(sessions))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// Session
	e.GET("/api/session", sessionHandler.Status)
	e.POST("/api/session/connect", sessionHandler.Connect)
	e.POST("/api/session/disconnect", sessionHandler.Disconnect)

	// Saved connections
	e.GET("/api/connections", connectionsHandler.List)
	e.POST("/api/connections", connectionsHandler.Save)
	e.DELETE("/api/connections/:id", connectionsHandler.Delete)

	// Buckets
	e.GET("/api/buckets", sessionHandler.ListBuckets)
	e.POST("/api/buckets", sessionHandler.CreateBucket)
	e.DELETE("/api/buckets/:bucketName", sessionHandler.DeleteBucket)

	// Object browser
	e.GET("/api/browse", browserHandler.Browse)
	e.POST("/api/browse/breadcrumb", browserHandler.NavigateBreadcrumb)
	e.POST("/api/browse/refresh", browserHandler.Refresh)
	e.POST("/api/filter", browserHandler.SetFilter)
	e.POST("/api/selection", browserHandler.Select)
	e.DELETE("/api/selection", browserHandler.ClearSelection)
	e.POST("/api/selection/delete", transferHandler.DeleteSelection)
	e.POST("/api/folders", browserHandler.CreateFolder)
	e.GET("/api/objects/info", browserHandler.ObjectInfo)
	e.POST("/api/objects/share", browserHandler.ShareLink)
	e.GET("/api/download", browserHandler.Download)

	// Transfers
	e.POST("/api/uploads", transferHandler.Upload)
	e.GET("/api/uploads", transferHandler.Tasks)

	return e
}
