package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/markjakearzadon/announcements-gobackend/internal/config"
	"github.com/markjakearzadon/announcements-gobackend/internal/db"
	"github.com/markjakearzadon/announcements-gobackend/internal/events"
	"github.com/markjakearzadon/announcements-gobackend/internal/handlers"
	"github.com/markjakearzadon/announcements-gobackend/internal/logger"
	"github.com/markjakearzadon/announcements-gobackend/internal/metrics"
	"github.com/markjakearzadon/announcements-gobackend/internal/repository"
	"github.com/markjakearzadon/announcements-gobackend/internal/repository/memory"
	mongorepo "github.com/markjakearzadon/announcements-gobackend/internal/repository/mongo"
	"github.com/markjakearzadon/announcements-gobackend/internal/repository/sqlstore"
	"github.com/markjakearzadon/announcements-gobackend/internal/services"
	"github.com/markjakearzadon/announcements-gobackend/internal/similarity"
	"go.uber.org/zap"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to open announcement store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()

	var publisher services.EventPublisher
	if cfg.NATS.URL != "" {
		p, err := events.Connect(&cfg.NATS, zl)
		if err != nil {
			zl.Warn("Event publishing disabled", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
		}
	}

	order, err := similarity.ParseOrder(cfg.Similarity.Order)
	if err != nil {
		zl.Fatal("Invalid similarity order", zap.Error(err))
	}
	finder := similarity.NewFinder(cfg.Similarity.Limit, order)

	m := metrics.New(cfg.Metrics.Namespace)
	announcementService := services.NewAnnouncementService(repo, finder, publisher, zl)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService, m, zl)
	router := handlers.NewRouter(announcementHandler, m, zl)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		zl.Info("Server running",
			zap.String("port", cfg.HTTP.Port),
			zap.String("store", cfg.Store.Driver),
			zap.String("similarity_order", string(order)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// openStore returns the repository for the configured driver and a function
// releasing its connection.
func openStore(ctx context.Context, cfg *config.Config, zl *zap.Logger) (repository.AnnouncementRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := db.ConnectMongo(ctx, &cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		zl.Info("Successfully connected to MongoDB", zap.String("database", cfg.Mongo.Database))

		repo := mongorepo.NewAnnouncementRepository(client.Database(cfg.Mongo.Database), cfg.Mongo.Collection)
		if err := repo.EnsureIndexes(ctx); err != nil {
			zl.Warn("Failed to create announcement indexes", zap.Error(err))
		}
		return repo, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				zl.Error("Error disconnecting from MongoDB", zap.Error(err))
			}
		}, nil

	case config.DriverMySQL:
		gdb, err := db.ConnectMySQL(&cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		zl.Info("Successfully connected to MySQL")

		repo := sqlstore.NewAnnouncementRepository(gdb)
		if err := repo.Migrate(); err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if sqlDB, err := gdb.DB(); err == nil {
				sqlDB.Close()
			}
		}, nil

	default:
		zl.Warn("Using in-memory announcement store; data is lost on restart")
		return memory.NewAnnouncementRepository(), func() {}, nil
	}
}
