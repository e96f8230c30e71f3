package api

import (
	"github.com/gin-gonic/gin"

	"plannerd/internal/app"
	"plannerd/internal/state"
)

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(a *app.App, logger state.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(CORS(a.Config().CORSOrigins))

	api := router.Group("/api")
	{
		api.GET("/health", Health())
		api.GET("/state", GetState(a, logger))
		api.PUT("/state", SaveState(a, logger))
		api.GET("/state/backups", ListBackups(a, logger))
		api.POST("/state/backups/:id/restore", RestoreBackup(a, logger))
		api.GET("/history", History(a, logger))
	}

	return router
}

// Serve runs the HTTP server on addr. Blocks until the server fails.
func Serve(a *app.App, logger state.Logger, addr string) error {
	router := NewRouter(a, logger)
	logger.Info("http server starting", "addr", addr)
	return router.Run(addr)
}
