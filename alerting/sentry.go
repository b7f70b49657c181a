package alerting

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// SentryHook forwards ERROR (or worse) entries to Sentry.
type SentryHook struct {
	hub *sentry.Hub
}

func NewSentryHook(hub *sentry.Hub) *SentryHook {
	return &SentryHook{hub: hub}
}

func (h *SentryHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
}

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	h.hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range entry.Data {
			if k == logrus.ErrorKey {
				continue
			}
			scope.SetExtra(k, v)
		}
		scope.SetLevel(sentry.LevelError)

		if err, ok := entry.Data[logrus.ErrorKey].(error); ok {
			h.hub.CaptureException(fmt.Errorf("%s: %w", entry.Message, err))
			return
		}
		h.hub.CaptureMessage(entry.Message)
	})
	return nil
}

// Setup installs the production alert hooks on logger. The returned function
// flushes pending Sentry events and must be called on shutdown.
func Setup(logger *logrus.Logger, opts Options) (func(), error) {
	flush := func() {}
	if !opts.Enabled {
		return flush, nil
	}

	if opts.Mailer != nil {
		logger.AddHook(NewMailHook(opts.Mailer, opts.From, opts.Admins))
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: opts.Environment,
		})
		if err != nil {
			return flush, err
		}
		logger.AddHook(NewSentryHook(sentry.CurrentHub()))
		flush = func() { sentry.Flush(2 * time.Second) }
	}
	return flush, nil
}

type Options struct {
	Enabled     bool
	Environment string
	Mailer      Mailer
	From        string
	Admins      []string
	SentryDSN   string
}
