// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/ariebrainware/coffee-brokerage/config"
	"github.com/ariebrainware/coffee-brokerage/endpoint"
	"github.com/ariebrainware/coffee-brokerage/middleware"
	"github.com/ariebrainware/coffee-brokerage/model"
	"github.com/ariebrainware/coffee-brokerage/scheduler"
	"github.com/ariebrainware/coffee-brokerage/util"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger := util.InitLogger(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)
	defer util.SyncLogger()

	db, err := config.ConnectDB()
	if err != nil {
		logger.Fatal("error connecting to database", zap.Error(err))
	}
	if err := model.AutoMigrate(db); err != nil {
		logger.Fatal("error migrating database", zap.Error(err))
	}

	rdb, err := config.ConnectRedis()
	if err != nil {
		logger.Warn("redis unavailable, continuing without it", zap.Error(err))
	}

	setupGeoIP(cfg, logger)
	defer util.CloseGeoIP()

	sinks := []audit.Sink{util.NewLoggerSink(logger), util.MetricsSink{}}
	if cfg.AuditDBMirror {
		sinks = append(sinks, util.NewGormSink(db))
	}
	if rdb != nil {
		sinks = append(sinks, util.NewRedisSink(rdb, cfg.AuditRedisKey, cfg.AuditRedisMax))
	}

	trail := audit.NewTrail(audit.Options{
		Capacity: cfg.AuditCapacity,
		Logger:   logger,
		Sinks:    sinks,
	})
	defer trail.Close()

	now := time.Now()
	attempts := 1
	trail.Session.UpdateSession(audit.SessionUpdate{
		StartTime:     &now,
		LastActivity:  &now,
		LoginAttempts: &attempts,
	})

	go util.NewIPResolver(cfg.IPLookupURL).Resolve(context.Background(), trail.Session)

	if cfg.AuditRetention > 0 {
		mirror := db
		if !cfg.AuditDBMirror {
			mirror = nil
		}
		retention := scheduler.NewRetention(trail.Logs, mirror, cfg.AuditRetention, logger)
		if err := retention.Start(cfg.AuditRetentionSchedule); err != nil {
			logger.Fatal("invalid retention schedule", zap.String("schedule", cfg.AuditRetentionSchedule), zap.Error(err))
		}
		defer retention.Stop()
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(),
		middleware.RequestContext(),
		middleware.DatabaseMiddleware(db),
		middleware.TrailMiddleware(trail),
	)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	endpoint.RegisterRoutes(router, middleware.RateLimitConfig{
		Limit:  cfg.WriteRateLimit,
		Window: cfg.WriteRateWindow,
	})

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("error starting server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

// setupGeoIP downloads the database when a URL is configured and the file is
// missing, then opens it. GeoIP is optional; failures only disable lookups.
func setupGeoIP(cfg *config.Config, logger *zap.Logger) {
	if cfg.GeoIPDBPath == "" {
		return
	}
	if _, err := os.Stat(cfg.GeoIPDBPath); errors.Is(err, os.ErrNotExist) && cfg.GeoIPDBURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		path, err := util.DownloadGeoIPWithRequest(ctx, util.DownloadRequest{URL: cfg.GeoIPDBURL, DestPath: cfg.GeoIPDBPath})
		if err != nil {
			logger.Warn("geoip download failed", zap.Error(err))
			return
		}
		if err := util.ValidateGeoIP(path); err != nil {
			logger.Warn("downloaded geoip database is invalid", zap.Error(err))
			return
		}
	}
	if err := util.InitGeoIP(cfg.GeoIPDBPath); err != nil {
		logger.Warn("geoip disabled", zap.Error(err))
	}
}
