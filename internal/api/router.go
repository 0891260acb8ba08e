package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gashpwh-sim/internal/api/handlers"
	"gashpwh-sim/internal/api/middleware"
	"gashpwh-sim/internal/config"
	"gashpwh-sim/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Options holds what the router needs. Metrics and Cache may be nil.
type Options struct {
	Server  *config.ServerConfig
	Catalog *data.ProfileCatalog
	Cache   *data.ResultCache
	Metrics *middleware.Metrics
	Logger  *logrus.Logger
}

// NewRouter builds the gin engine with every route and middleware.
func NewRouter(o Options) *gin.Engine {
	if o.Metrics == nil {
		o.Metrics = middleware.NewMetrics()
	}
	sc := o.Server

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(o.Logger))
	router.Use(middleware.ErrorHandler(o.Logger))
	router.Use(o.Metrics.Middleware())

	configs := handlers.ConfigBuilder{DeviceDir: sc.DeviceDir, DataDir: sc.DataDir}
	profiles := &handlers.ProfileStore{Dir: sc.ProfileDir, Catalog: o.Catalog}

	simulateHandler := handlers.NewSimulateHandler(configs, profiles, o.Cache, o.Metrics, o.Logger)
	deviceHandler := handlers.NewDeviceHandler(sc.DeviceDir, o.Logger)
	profilesHandler := handlers.NewProfilesHandler(profiles)
	rankHandler := handlers.NewRankHandler(configs, profiles, o.Metrics, o.Logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(o.Metrics.Handler()))

	limited := middleware.RateLimit(sc.RateLimit, sc.RateBurst)

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", limited, simulateHandler.Simulate)
		api.GET("/simulate/:id/records", simulateHandler.GetRecords)
		api.POST("/simulate/compare", limited, simulateHandler.Compare)

		api.GET("/devices", deviceHandler.ListDevices)
		api.GET("/cop-models", handlers.ListCOPModels)
		api.GET("/profiles", profilesHandler.ListProfiles)

		api.GET("/rank", limited, rankHandler.RankProfiles)
	}

	serveStatic(router, sc.StaticDir, o.Logger)
	return router
}

// serveStatic serves a built single-page app from dir, with index.html for
// every non-API route.
func serveStatic(router *gin.Engine, dir string, logger *logrus.Logger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	}
	if dir == "" {
		router.NoRoute(notFound)
		return
	}
	if _, err := os.Stat(dir); err != nil {
		logger.WithField("dir", dir).Info("static directory not found, skipping static file serving")
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
	logger.WithField("dir", dir).Info("serving static files")
}
