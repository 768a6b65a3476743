// Package report forwards captured errors to the log and, when configured,
// to Sentry.
package report

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Reporter captures errors without returning anything to the caller
type Reporter interface {
	Capture(err error)
}

// Log writes captured errors to a zerolog logger with their stack
type Log struct {
	log zerolog.Logger
}

func NewLog(l zerolog.Logger) *Log {
	return &Log{log: l.With().Str("component", "report").Logger()}
}

func (r *Log) Capture(err error) {
	if err == nil {
		return
	}
	r.log.Error().Stack().Err(errors.WithStack(err)).Msg("captured error")
}

// Sentry sends captured errors to a Sentry project
type Sentry struct {
	hub *sentry.Hub
}

// NewSentry creates a reporter bound to its own hub
func NewSentry(dsn, environment, release string) (*Sentry, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create sentry client")
	}
	return &Sentry{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func (r *Sentry) Capture(err error) {
	if err == nil {
		return
	}
	r.hub.CaptureException(err)
}

// Flush waits up to timeout for queued events to be delivered
func (r *Sentry) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}

// Multi fans a captured error out to every reporter
type Multi []Reporter

func (m Multi) Capture(err error) {
	if err == nil {
		return
	}
	for _, r := range m {
		r.Capture(err)
	}
}

// New returns a log reporter, plus Sentry when dsn is set. The returned
// flush function must be called before exit.
func New(l zerolog.Logger, dsn, environment, release string) (Reporter, func()) {
	logReporter := NewLog(l)
	if dsn == "" {
		return logReporter, func() {}
	}

	sentryReporter, err := NewSentry(dsn, environment, release)
	if err != nil {
		l.Warn().Err(err).Msg("sentry disabled")
		return logReporter, func() {}
	}
	return Multi{logReporter, sentryReporter}, func() {
		sentryReporter.Flush(2 * time.Second)
	}
}
