package logging

import (
	"errors"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// SentryHook forwards logrus entries of the given levels to sentry.
type SentryHook struct {
	levels []log.Level
	hub    *sentry.Hub
}

func NewSentryHook(levels []log.Level) *SentryHook {
	return &SentryHook{
		levels: levels,
		hub:    sentry.CurrentHub(),
	}
}

func (h *SentryHook) Levels() []log.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *log.Entry) error {
	h.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevel(entry.Level))
		for k, v := range entry.Data {
			if k == log.ErrorKey {
				continue
			}
			scope.SetExtra(k, v)
		}

		if err, ok := entry.Data[log.ErrorKey].(error); ok && err != nil {
			h.hub.CaptureException(errors.Join(errors.New(entry.Message), err))
			return
		}
		h.hub.CaptureMessage(entry.Message)
	})
	return nil
}

func sentryLevel(level log.Level) sentry.Level {
	switch level {
	case log.PanicLevel, log.FatalLevel:
		return sentry.LevelFatal
	case log.ErrorLevel:
		return sentry.LevelError
	case log.WarnLevel:
		return sentry.LevelWarning
	case log.InfoLevel:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}
