package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/rental-market/internal/auth"
	"github.com/ukydev/rental-market/internal/cache"
	"github.com/ukydev/rental-market/internal/config"
	"github.com/ukydev/rental-market/internal/db"
	"github.com/ukydev/rental-market/internal/events"
	"github.com/ukydev/rental-market/internal/handlers"
	"github.com/ukydev/rental-market/internal/logging"
	"github.com/ukydev/rental-market/internal/media"
	"github.com/ukydev/rental-market/internal/metrics"
	"github.com/ukydev/rental-market/internal/middleware"
	"github.com/ukydev/rental-market/internal/models"
	"github.com/ukydev/rental-market/internal/query"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("Server stopped with error")
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	client, err := db.ConnectMongo(ctx, cfg.Mongo.URI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	logger.WithField("database", cfg.Mongo.Database).Info("Connected to MongoDB")

	database := client.Database(cfg.Mongo.Database)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		return err
	}

	m := metrics.New()

	store, uploadsDir, err := newMediaStore(ctx, cfg.Media, logger)
	if err != nil {
		return err
	}
	uploader := media.NewUploader(store, logger.WithField("component", "media"), m, cfg.Media.CleanupTimeout)
	defer uploader.Wait()

	listingCache := newCache(ctx, cfg.Redis, logger)
	defer listingCache.Close()

	emitter := events.NewEmitter(newPublisher(cfg.Events, logger), cfg.Events.TopicPrefix, topicSeparator(cfg.Events.Backend), logger.WithField("component", "events"))
	defer emitter.Close()

	patchMode, err := models.ParsePatchMode(cfg.Listing.PatchMode)
	if err != nil {
		return err
	}

	authService := auth.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)
	users := &db.MongoUserCollection{Collection: database.Collection(db.UserCollectionName)}
	cars := db.NewListingCollection[models.Car](database.Collection(db.CarCollection), "Car")
	decors := db.NewListingCollection[models.Decoration](database.Collection(db.DecorationCollection), "Decor")

	svc := handlers.ListingServices{
		Media:          uploader,
		Cache:          listingCache,
		Events:         emitter,
		Recorder:       m,
		Policy:         query.Policy{EmptyAsNotFound: cfg.Listing.EmptyAsNotFound},
		PatchMode:      patchMode,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes(),
		Logger:         logger,
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:           handlers.NewAuthHandler(auth.NewAccounts(authService, users), logger),
		Cars:           handlers.NewCarHandler(cars, svc),
		Decors:         handlers.NewDecorHandler(decors, svc),
		AuthMW:         middleware.NewAuthMiddleware(authService),
		Metrics:        m,
		Logger:         logger,
		ClientURL:      cfg.HTTP.ClientURL,
		AuthRateLimit:  cfg.HTTP.AuthRateLimit,
		AuthRateWindow: cfg.HTTP.AuthRateWindow,
		UploadsDir:     uploadsDir,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.HTTP.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newMediaStore returns the configured asset store and, for the local
// backend, the directory to serve under /uploads/.
func newMediaStore(ctx context.Context, cfg config.MediaConfig, logger *logrus.Logger) (media.Store, string, error) {
	if cfg.Backend == "local" {
		store, err := media.NewLocalStore(cfg.LocalPath, "/uploads")
		if err != nil {
			return nil, "", err
		}
		logger.WithField("path", cfg.LocalPath).Info("Using local media store")
		return store, store.Dir(), nil
	}

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	store, err := media.NewS3Store(initCtx, media.S3Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
		PublicURL: cfg.PublicURL,
	}, logger.WithField("component", "s3"))
	if err != nil {
		return nil, "", err
	}
	logger.WithFields(logrus.Fields{"endpoint": cfg.Endpoint, "bucket": cfg.Bucket}).Info("Using S3 media store")
	return store, "", nil
}

// newCache falls back to a no-op cache when Redis is disabled or down.
func newCache(ctx context.Context, cfg config.RedisConfig, logger *logrus.Logger) cache.Cache {
	if cfg.Addr == "" {
		return cache.Nop{}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c, err := cache.NewListingCache(pingCtx, cfg.Addr, cfg.Password, cfg.DB, cfg.TTL)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, listing cache disabled")
		return cache.Nop{}
	}
	logger.WithField("addr", cfg.Addr).Info("Listing cache enabled")
	return c
}

// newPublisher falls back to a no-op publisher when the broker is down.
func newPublisher(cfg config.EventsConfig, logger *logrus.Logger) events.Publisher {
	var (
		pub events.Publisher
		err error
	)
	switch cfg.Backend {
	case "mqtt":
		pub, err = events.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClient)
	case "nats":
		pub, err = events.NewNATSPublisher(cfg.NATSURL)
	default:
		return events.Nop{}
	}
	if err != nil {
		logger.WithError(err).WithField("backend", cfg.Backend).Warn("Event broker unavailable, listing events disabled")
		return events.Nop{}
	}
	logger.WithField("backend", cfg.Backend).Info("Listing events enabled")
	return pub
}

func topicSeparator(backend string) string {
	if backend == "nats" {
		return "."
	}
	return "/"
}
