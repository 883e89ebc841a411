package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN         string
	Enabled     bool
	Environment string // dev or prod
	Release     string

	// SampleRate is the share of errors sent (0.0 to 1.0). Zero means 1.0.
	SampleRate       float64
	TracesSampleRate float64
	Debug            bool
}

var enabled atomic.Bool

// sensitiveHeaders never leave the process.
var sensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie", "X-Api-Key"}

// InitSentry initializes the global Sentry client. The returned func flushes
// buffered events and should run on shutdown.
func InitSentry(cfg SentryConfig, logger *slog.Logger) (func(), error) {
	enabled.Store(false)

	if !cfg.Enabled {
		logger.Info("Sentry disabled (SENTRY_ENABLED=false)")
		return func() {}, nil
	}
	if cfg.DSN == "" {
		logger.Warn("Sentry DSN not configured, disabling error tracking")
		return func() {}, nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		TracesSampleRate: cfg.TracesSampleRate,
		Debug:            cfg.Debug,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return scrubEvent(event)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sentry: %w", err)
	}
	enabled.Store(true)

	logger.Info("Sentry initialized",
		"environment", cfg.Environment,
		"release", cfg.Release,
		"sample_rate", sampleRate,
	)

	return func() { sentry.Flush(flushTimeout) }, nil
}

// IsEnabled reports whether events are being sent.
func IsEnabled() bool {
	return enabled.Load()
}

// scrubEvent drops credentials and request bodies, which may hold passwords.
func scrubEvent(event *sentry.Event) *sentry.Event {
	if event == nil || event.Request == nil {
		return event
	}
	for name := range event.Request.Headers {
		for _, sensitive := range sensitiveHeaders {
			if strings.EqualFold(name, sensitive) {
				event.Request.Headers[name] = "[Filtered]"
			}
		}
	}
	event.Request.Cookies = ""
	event.Request.Data = ""
	return event
}

// CaptureErrorFromContext reports err on the request hub, or the global hub
// outside a request. It is a no-op while Sentry is disabled.
func CaptureErrorFromContext(ctx context.Context, err error, extras map[string]any) {
	if !IsEnabled() || err == nil {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range extras {
			scope.SetExtra(key, value)
		}
		hub.CaptureException(err)
	})
}

// SentryMiddleware gives each request its own hub and reports panics before
// re-raising them. Place it inside router.Recovery.
func SentryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetRequest(r)
			if id := domain.RequestIDFromContext(r.Context()); id != "" {
				hub.Scope().SetTag("request_id", id)
			}
			ctx := sentry.SetHubOnContext(r.Context(), hub)

			defer func() {
				if err := recover(); err != nil {
					if err != http.ErrAbortHandler {
						hub.RecoverWithContext(ctx, err)
						hub.Flush(flushTimeout)
					}
					panic(err)
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserExtractor returns the email of the caller, or "" when anonymous.
type UserExtractor func(ctx context.Context) string

// SentryUserMiddleware tags the request hub with the caller's email.
// Apply after the identity middleware.
func SentryUserMiddleware(extract UserExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hub := sentry.GetHubFromContext(r.Context()); hub != nil && extract != nil {
				if email := extract(r.Context()); email != "" {
					hub.Scope().SetUser(sentry.User{Email: email})
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
