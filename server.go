package api

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"Chirp/alerting"
	"Chirp/config"
	"Chirp/controllers"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Run loads configuration from the environment and serves until SIGINT or
// SIGTERM.
func Run() {
	logger := logrus.StandardLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	configureLogger(logger, cfg)

	flush, err := setupAlerting(logger, cfg)
	if err != nil {
		logger.WithError(err).Warn("error reporting not fully configured")
	}
	defer flush()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	server, err := controllers.Initialize(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("cannot initialize server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + strings.TrimSpace(cfg.Port)
	if err := server.Run(ctx, addr); err != nil {
		logger.WithError(err).Error("server stopped")
	}
}

func configureLogger(logger *logrus.Logger, cfg *config.Config) {
	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

// setupAlerting mails and reports server faults in production only.
func setupAlerting(logger *logrus.Logger, cfg *config.Config) (func(), error) {
	opts := alerting.Options{
		Enabled:     cfg.IsProduction(),
		Environment: cfg.AppEnv,
		From:        "no-reply@" + mailDomain(cfg),
		Admins:      cfg.Mail.Admins,
		SentryDSN:   cfg.SentryDSN,
	}

	if opts.Enabled && cfg.MailConfigured() {
		mailer, err := alerting.NewMailer(cfg.Mail)
		if err != nil {
			return func() {}, err
		}
		opts.Mailer = mailer
	}
	return alerting.Setup(logger, opts)
}

func mailDomain(cfg *config.Config) string {
	if cfg.Mail.Server != "" {
		return cfg.Mail.Server
	}
	return "chirp.local"
}
