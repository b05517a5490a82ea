package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artifact-catalog-service/internal/adapters/primary/http/handlers"
	"artifact-catalog-service/internal/adapters/primary/http/middleware"
	"artifact-catalog-service/internal/adapters/secondary/amqp"
	"artifact-catalog-service/internal/adapters/secondary/filestore"
	"artifact-catalog-service/internal/adapters/secondary/gormstore"
	"artifact-catalog-service/internal/adapters/secondary/redisstore"
	"artifact-catalog-service/internal/config"
	ports "artifact-catalog-service/internal/core/ports/output"
	"artifact-catalog-service/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Open database
	store, err := gormstore.Open(context.Background(), cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	if err := store.AutoMigrate(); err != nil {
		log.Fatalf("migrate db: %v", err)
	}
	log.WithField("driver", cfg.Database.Driver).Info("database connection established")

	storage, err := filestore.NewLocalStorage(cfg.Media.Root, cfg.Media.URL)
	if err != nil {
		log.Fatalf("media storage: %v", err)
	}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports - Repositories)
	artifactRepo := gormstore.NewArtifactRepository(store)
	refRepo := gormstore.NewReferenceRepository(store)
	mediaRepo := gormstore.NewMediaRepository(store)
	userRepo := gormstore.NewUserRepository(store)
	requesterRepo := gormstore.NewRequesterRepository(store)

	// Redis (Optional - rate limiting and response cache)
	rdb := redisstore.NewClient(context.Background(), cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	// Event publisher (Optional - based on config)
	var publisher ports.EventPublisher = amqp.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = amqp.NewPublisher(cfg.Events)
		log.WithField("queue", cfg.Events.Queue).Info("download events enabled")
	} else {
		log.Info("download events disabled")
	}
	defer publisher.Close()

	// Core Services (Application Layer)
	catalogSvc := services.NewCatalogService(artifactRepo, cfg.Catalog.PageSize)
	artifactSvc := services.NewArtifactService(artifactRepo, refRepo, mediaRepo, storage)
	downloadSvc := services.NewDownloadService(artifactRepo, refRepo, requesterRepo, storage, publisher)
	metadataSvc := services.NewMetadataService(refRepo)
	authSvc := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(catalogSvc, artifactSvc, downloadSvc, metadataSvc, authSvc, storage)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())
	router.Static(cfg.Media.URL, storage.Root())

	api := router.Group("/api")
	h.RegisterRoutes(api, handlers.RouteMiddleware{
		RateLimit: middleware.RateLimit(cfg.RateLimit, rdb),
		Cache:     middleware.Cache(cfg.Cache, rdb),
	})

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
