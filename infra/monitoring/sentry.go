package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"

	coremon "github.com/kilianp07/carrierassign/core/monitoring"
)

const recoverFlushTimeout = 2 * time.Second

// Config defines settings for Sentry error monitoring.
type Config struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
	Release          string  `json:"release"`
}

// NewSentryMonitor returns a Sentry backed Monitor. An empty DSN disables
// reporting.
func NewSentryMonitor(cfg Config) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          cfg.Release,
	})
	if err != nil {
		return nil, err
	}
	return &sentryMonitor{hub: sentry.CurrentHub()}, nil
}

type sentryMonitor struct {
	hub *sentry.Hub
}

// levelFor maps a failure kind to a Sentry level. Bad input is the caller's
// problem, so it is only a warning.
func levelFor(kind string) sentry.Level {
	if kind == "input" {
		return sentry.LevelWarning
	}
	return sentry.LevelError
}

func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	s.hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		kind := tags[coremon.TagKind]
		scope.SetLevel(levelFor(kind))
		// Group by failure kind and stage rather than by message, which
		// carries shipment and carrier identifiers.
		if kind != "" || tags[coremon.TagStage] != "" {
			scope.SetFingerprint([]string{"carrierassign", kind, tags[coremon.TagStage]})
		}
		s.hub.CaptureException(err)
	})
}

func (s *sentryMonitor) Recover() {
	if r := recover(); r != nil {
		s.hub.Recover(r)
		s.hub.Flush(recoverFlushTimeout)
		panic(r)
	}
}

func (s *sentryMonitor) Flush(timeout time.Duration) { s.hub.Flush(timeout) }
