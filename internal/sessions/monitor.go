package sessions

import (
	"context"
	"time"

	"github.com/2beens/gymsessions/internal/telemetry/metrics"
	"github.com/2beens/gymsessions/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TriggerAuto     = "auto"
	TriggerExplicit = "explicit"
	TriggerSweep    = "sweep"

	sweepBatchSize = 100
)

type pendingCounter interface {
	CountPending(ctx context.Context, sessionID int) (int, error)
	ListStuck(ctx context.Context, limit int) ([]int, error)
}

type sessionFinisher interface {
	finish(ctx context.Context, sessionID int, trigger string) (*Session, error)
}

// Monitor finishes sessions once no set is left pending.
// Checks are serialized per session, failures are logged and never returned.
type Monitor struct {
	store          pendingCounter
	finisher       sessionFinisher
	locks          *keyedMutex
	metricsManager *metrics.Manager
}

func newMonitor(store pendingCounter, finisher sessionFinisher, metricsManager *metrics.Manager) *Monitor {
	return &Monitor{
		store:          store,
		finisher:       finisher,
		locks:          newKeyedMutex(),
		metricsManager: metricsManager,
	}
}

// AfterTransition runs after every successful set transition.
// Returns true when this call finished the session.
func (m *Monitor) AfterTransition(ctx context.Context, sessionID int) bool {
	ctx, span := tracing.GlobalTracer.Start(ctx, "monitor.afterTransition")
	defer span.End()
	span.SetAttributes(attribute.Int("session.id", sessionID))

	unlock := m.locks.Lock(sessionID)
	defer unlock()

	pending, err := m.store.CountPending(ctx, sessionID)
	if err != nil {
		log.Errorf("monitor: count pending sets of session %d: %s", sessionID, err)
		m.countFailure()
		return false
	}
	if pending > 0 {
		return false
	}

	session, err := m.finisher.finish(ctx, sessionID, TriggerAuto)
	if err != nil {
		// the session stays active, the next action or the sweep retries
		log.Errorf("monitor: auto finish session %d: %s", sessionID, err)
		m.countFailure()
		return false
	}
	return session.Status == StatusCompleted
}

// Sweep finishes active sessions that have no pending sets left,
// e.g. when an auto finish failed after the last transition.
func (m *Monitor) Sweep(ctx context.Context) int {
	ctx, span := tracing.GlobalTracer.Start(ctx, "monitor.sweep")
	defer span.End()

	if m.metricsManager != nil {
		defer func(begin time.Time) {
			m.metricsManager.HistogramSweepDuration.Observe(time.Since(begin).Seconds())
		}(time.Now())
	}

	ids, err := m.store.ListStuck(ctx, sweepBatchSize)
	if err != nil {
		log.Errorf("monitor sweep: list stuck sessions: %s", err)
		return 0
	}

	finished := 0
	for _, id := range ids {
		if m.finishStuck(ctx, id) {
			finished++
		}
	}
	if finished > 0 {
		log.Infof("monitor sweep: finished %d stuck sessions", finished)
	}
	span.SetAttributes(attribute.Int("sessions.finished", finished))
	return finished
}

func (m *Monitor) finishStuck(ctx context.Context, sessionID int) bool {
	unlock := m.locks.Lock(sessionID)
	defer unlock()

	if _, err := m.finisher.finish(ctx, sessionID, TriggerSweep); err != nil {
		log.Errorf("monitor sweep: finish session %d: %s", sessionID, err)
		m.countFailure()
		return false
	}
	return true
}

func (m *Monitor) countFailure() {
	if m.metricsManager != nil {
		m.metricsManager.CounterAutoFinishFailures.Inc()
	}
}
