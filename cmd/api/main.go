// Command api serves gas HPWH simulations over HTTP.
//
// Usage:
//
//	api [flags]
//
// The flags are:
//
//	-config string
//	      optional server config file; every key may also be set as HPWH_<KEY>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gashpwh-sim/internal/api"
	"gashpwh-sim/internal/api/middleware"
	"gashpwh-sim/internal/config"
	"gashpwh-sim/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := flag.String("config", "", "Path to server config file (optional)")
	flag.Parse()

	sc, err := config.LoadServer(*cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load server configuration: %v", err)
	}

	logger := newLogger(sc)

	if sc.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	catalog := loadCatalog(sc, logger)

	cache, err := data.NewResultCache(sc.CacheSize)
	if err != nil {
		logger.Fatalf("Failed to create result cache: %v", err)
	}

	router := api.NewRouter(api.Options{
		Server:  sc,
		Catalog: catalog,
		Cache:   cache,
		Metrics: middleware.NewMetrics(),
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", sc.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port":        sc.Port,
			"env":         sc.Env,
			"device_dir":  sc.DeviceDir,
			"profile_dir": sc.ProfileDir,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	handleShutdown(srv, logger, errChan)
}

func newLogger(sc *config.ServerConfig) *logrus.Logger {
	logger := logrus.New()
	if sc.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(sc.LogLevel)
	if err != nil {
		logger.WithField("log_level", sc.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadCatalog prefers a prebuilt catalog file and otherwise indexes the
// profile directory at startup.
func loadCatalog(sc *config.ServerConfig, logger *logrus.Logger) *data.ProfileCatalog {
	if sc.CatalogPath != "" {
		cat, err := data.LoadCatalog(sc.CatalogPath)
		if err == nil {
			logger.WithFields(logrus.Fields{
				"path":     sc.CatalogPath,
				"profiles": len(cat.Profiles),
			}).Info("Loaded profile catalog")
			return cat
		}
		logger.WithError(err).Warn("Failed to load profile catalog, scanning profile dir")
	}

	cat, skipped, err := data.ScanProfiles(sc.ProfileDir, time.Now())
	if err != nil {
		logger.WithError(err).Warn("Profile directory unavailable, catalog is empty")
		return &data.ProfileCatalog{}
	}
	for file, reason := range skipped {
		logger.WithFields(logrus.Fields{"file": file, "reason": reason}).Warn("Skipped profile")
	}
	logger.WithFields(logrus.Fields{
		"dir":      sc.ProfileDir,
		"profiles": len(cat.Profiles),
	}).Info("Indexed profiles")
	return cat
}

func handleShutdown(srv *http.Server, logger *logrus.Logger, errChan <-chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		logger.Printf("Received signal %v, initiating shutdown", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
		return
	}
	logger.Println("Server stopped")
}
