package server

import (
	"github.com/gin-gonic/gin"

	"cartaporte-backend/internal/catalogs"
	"cartaporte-backend/internal/invoicing"
	"cartaporte-backend/internal/jobs"
	"cartaporte-backend/internal/shared/config"
	"cartaporte-backend/internal/shared/metrics"
	"cartaporte-backend/internal/shared/server/middleware"
	"cartaporte-backend/internal/shared/server/respond"
	"cartaporte-backend/internal/shared/storage/object"
	"cartaporte-backend/internal/uploads"
)

// NewRouter assembles the gin engine: middleware chain, health and metrics
// endpoints, and the versioned API.
func NewRouter(cfg config.Config, store object.ObjectStore, jobSvc *jobs.Service, provider invoicing.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowOrigin))

	r.GET("/healthz", func(c *gin.Context) {
		respond.OK(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	uploads.NewHandler(store, jobSvc).Register(api)
	jobs.NewHandler(jobSvc).Register(api)
	catalogs.NewHandler(provider).Register(api)

	return r
}
