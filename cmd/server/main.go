package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/finboard/backend/internal/application/billing"
	identityapp "github.com/finboard/backend/internal/application/identity"
	partnerapp "github.com/finboard/backend/internal/application/partner"
	reportingapp "github.com/finboard/backend/internal/application/reporting"
	searchapp "github.com/finboard/backend/internal/application/search"
	"github.com/finboard/backend/internal/infrastructure/auth"
	"github.com/finboard/backend/internal/infrastructure/config"
	"github.com/finboard/backend/internal/infrastructure/logger"
	"github.com/finboard/backend/internal/infrastructure/persistence"
	"github.com/finboard/backend/internal/infrastructure/storage"
	"github.com/finboard/backend/internal/interfaces/http/handler"
	"github.com/finboard/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting FinBoard Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	db, err := persistence.Connect(ctx, cfg.Mongo)
	cancel()
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			log.Error("Error closing MongoDB connection", zap.Error(err))
		}
	}()
	log.Info("MongoDB connected", zap.String("database", cfg.Mongo.Database))

	// Token blacklist: redis in normal operation, in-memory fallback keeps
	// development working without a redis instance.
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		defer func() {
			_ = redisBlacklist.Close()
		}()
		blacklist = redisBlacklist
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var images partnerapp.ImageStorage
	s3Store, err := storage.NewS3ImageStorage(cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	bucketCtx, bucketCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := s3Store.EnsureBucket(bucketCtx); err != nil {
		log.Warn("Could not ensure storage bucket; uploads may fail", zap.Error(err))
	}
	bucketCancel()
	images = s3Store

	// Repositories
	customerRepo := persistence.NewMongoCustomerRepository(db)
	invoiceRepo := persistence.NewMongoInvoiceRepository(db)
	revenueRepo := persistence.NewMongoRevenueRepository(db)
	userRepo := persistence.NewMongoUserRepository(db)
	documentRepo := persistence.NewMongoDocumentRepository(db)

	// Search index subsystem
	synchronizer := searchapp.NewSynchronizer(documentRepo, customerRepo)
	executor := searchapp.NewExecutor(documentRepo)
	rebuilder := searchapp.NewRebuilder(documentRepo, invoiceRepo, synchronizer)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist)
	userService := identityapp.NewUserService(userRepo)
	customerService := partnerapp.NewCustomerService(customerRepo, synchronizer, images)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, customerRepo, synchronizer)
	revenueService := reportingapp.NewRevenueService(revenueRepo, invoiceRepo, customerRepo)

	engine := router.New(
		router.Dependencies{
			Config:    cfg,
			Logger:    log,
			JWT:       jwtService,
			Blacklist: blacklist,
		},
		router.Handlers{
			System:      handler.NewSystemHandler(db, version),
			Auth:        handler.NewAuthHandler(authService),
			Customer:    handler.NewCustomerHandler(customerService),
			Invoice:     handler.NewInvoiceHandler(invoiceService, executor),
			Revenue:     handler.NewRevenueHandler(revenueService),
			User:        handler.NewUserHandler(userService),
			SearchIndex: handler.NewSearchIndexHandler(rebuilder),
		},
	)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
