package main

// @title           Bookshelf API
// @version         1.0
// @description     Read-only JSON access to the book catalog.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /api

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/snnyvrz/bookshelf/internal/config"
	"github.com/snnyvrz/bookshelf/internal/db"
	docs "github.com/snnyvrz/bookshelf/internal/docs"
	"github.com/snnyvrz/bookshelf/internal/flash"
	"github.com/snnyvrz/bookshelf/internal/handler"
	"github.com/snnyvrz/bookshelf/internal/logger"
	"github.com/snnyvrz/bookshelf/internal/middleware"
	"github.com/snnyvrz/bookshelf/internal/repository"
	"github.com/snnyvrz/bookshelf/internal/view"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/automaxprocs/maxprocs"
)

const appVersion = "0.1.0"

const shutdownTimeout = 10 * time.Second

func newRouter(cfg *config.Config, conns repository.Connector, metrics *middleware.Metrics, startTime time.Time) *gin.Engine {
	e := gin.New()
	e.HandleMethodNotAllowed = true

	e.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
	})

	e.Use(
		middleware.RequestID(),
		metrics.Handler(),
		middleware.Logger(),
		middleware.Recovery(),
	)

	e.SetHTMLTemplate(view.Templates())

	flashes := flash.NewStore(cfg.SecretKey, flash.WithSecureCookie(cfg.GinMode == gin.ReleaseMode))

	healthHandler := handler.NewHealthHandler(conns, startTime, appVersion)
	healthHandler.RegisterRoutes(e.Group(""))

	bookHandler := handler.NewBookHandler(conns, flashes)
	bookHandler.RegisterRoutes(e.Group(""))

	docs.SwaggerInfo.BasePath = "/api"

	api := e.Group("/api")
	{
		apiHandler := handler.NewBookAPIHandler(conns)
		apiHandler.RegisterRoutes(api)
	}

	e.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return e
}

func main() {
	startTime := time.Now()

	cfg := config.Load()

	logger.Init(cfg.GinMode, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	maxprocsLog := func(format string, args ...any) { log.Debug().Msgf(format, args...) }
	if _, err := maxprocs.Set(maxprocs.Logger(maxprocsLog)); err != nil {
		log.Warn().Err(err).Msg("failed to set GOMAXPROCS")
	}

	if cfg.InsecureSecret() && cfg.GinMode == gin.ReleaseMode {
		log.Warn().Msg("BOOKS_SECRET is not set; flash cookies are signed with the development key")
	}

	database, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	if err := db.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("failed to create schema")
	}

	metrics := middleware.NewMetrics()
	prometheus.MustRegister(metrics)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(cfg, db.NewPool(database), metrics, startTime),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("mode", cfg.GinMode).Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
