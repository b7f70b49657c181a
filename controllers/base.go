package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"Chirp/cache"
	"Chirp/config"
	"Chirp/metrics"
	"Chirp/middlewares"
	"Chirp/models"
	"Chirp/seed"
	"Chirp/storage"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Server struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Config  *config.Config
	Cache   *cache.Cache
	Avatars storage.AvatarStore
	Metrics *metrics.Metrics
	Log     *logrus.Logger
}

type Option func(*Server)

func WithCache(c *cache.Cache) Option {
	return func(s *Server) { s.Cache = c }
}

func WithAvatarStore(store storage.AvatarStore) Option {
	return func(s *Server) { s.Avatars = store }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.Metrics = m }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(s *Server) { s.Log = logger }
}

// NewServer wires the router around an already-migrated database.
func NewServer(db *gorm.DB, cfg *config.Config, opts ...Option) *Server {
	server := &Server{
		DB:     db,
		Config: cfg,
		Log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Cache == nil {
		server.Cache, _ = cache.New(nil, cfg.Redis.LocalCacheSize)
	}
	if server.Metrics == nil {
		server.Metrics = metrics.New()
	}

	server.Router = gin.New()
	server.Router.Use(middlewares.Recovery(server.Log))
	if cfg.IsProduction() && cfg.SentryDSN != "" {
		server.Router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	server.Router.Use(middlewares.RequestLogger(server.Log))
	server.Router.Use(server.Metrics.Middleware())
	server.Router.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	server.Router.Use(middlewares.RateLimitMiddleware(cfg.RateLimit.Every, cfg.RateLimit.Burst))
	server.initializeRoutes()
	return server
}

// Initialize opens the configured database and every optional backend, then
// builds the server. Optional backends that fail to come up are logged and
// skipped.
func Initialize(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	db, err := OpenDatabase(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}
	if err := ensureFollowCounterDefaults(db); err != nil {
		logger.WithError(err).Warn("follow counters not normalized")
	}

	if n, err := models.DeleteExpiredSessions(db, time.Now()); err != nil {
		logger.WithError(err).Warn("could not purge expired sessions")
	} else if n > 0 {
		logger.WithField("count", n).Info("purged expired sessions")
	}

	opts := []Option{WithLogger(logger)}

	respCache, err := cache.NewFromConfig(cfg.Redis)
	if err != nil {
		logger.WithError(err).Warn("could not connect to redis, using in-process cache")
	}
	opts = append(opts, WithCache(respCache))

	if cfg.S3.Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := storage.NewS3AvatarStore(ctx, cfg.S3)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("avatar uploads disabled")
		} else {
			opts = append(opts, WithAvatarStore(store))
		}
	}

	if cfg.SeedDemo {
		if err := seed.Load(db, logger); err != nil {
			logger.WithError(err).Error("seeding demo data failed")
		}
	}

	return NewServer(db, cfg, opts...), nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (server *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		server.Log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return server.Cache.Close()
}

func ensureFollowCounterDefaults(db *gorm.DB) error {
	if err := db.Exec(
		"UPDATE users SET followers_count = 0 WHERE followers_count IS NULL",
	).Error; err != nil {
		return err
	}
	if err := db.Exec(
		"UPDATE users SET following_count = 0 WHERE following_count IS NULL",
	).Error; err != nil {
		return err
	}
	return nil
}
