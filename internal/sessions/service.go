package sessions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/2beens/gymsessions/internal/plans"
	"github.com/2beens/gymsessions/internal/telemetry/metrics"
	"github.com/2beens/gymsessions/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=sessions_test

const (
	MaxListSize = 100
	MinRating   = 1
	MaxRating   = 5
)

type planGetter interface {
	Get(ctx context.Context, id int) (*plans.Snapshot, error)
}

type durationsReconciler interface {
	Record(ctx context.Context, session *Session) error
	SessionMinutes(ctx context.Context, session *Session) (int, error)
}

// Service owns the session lifecycle and applies set transitions.
// All operations are scoped to the calling user.
type Service struct {
	store          Store
	plans          planGetter
	durations      durationsReconciler
	monitor        *Monitor
	metricsManager *metrics.Manager
	now            func() time.Time
}

type ServiceParams struct {
	Store          Store
	Plans          planGetter
	Durations      durationsReconciler
	MetricsManager *metrics.Manager
	// Now is used to stamp timestamps, defaults to time.Now.
	Now func() time.Time
}

func NewService(params ServiceParams) *Service {
	s := &Service{
		store:          params.Store,
		plans:          params.Plans,
		durations:      params.Durations,
		metricsManager: params.MetricsManager,
		now:            params.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.monitor = newMonitor(params.Store, s, params.MetricsManager)
	return s
}

func (s *Service) Monitor() *Monitor {
	return s.monitor
}

// Start builds a session from the given plan day and makes it the user's active session.
func (s *Service) Start(ctx context.Context, userID, planID, dayIndex int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("plan.id", planID))

	if _, err := s.store.GetActive(ctx, userID); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get active session: %w", err)
	}

	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		if errors.Is(err, plans.ErrPlanNotFound) {
			return nil, fmt.Errorf("plan %d: %w", planID, ErrNotFound)
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("plan %d: %w", planID, ErrNotFound)
	}

	session, err := BuildSession(userID, plan, dayIndex, s.now())
	if err != nil {
		return nil, err
	}

	// a racing start is rejected by the store with ErrConflict
	session, err = s.store.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	s.countStarted()
	log.Debugf("session %d started, user %d, plan %d, day %d", session.ID, userID, planID, dayIndex)

	// an empty tree has nothing to wait for
	if session.PendingSets() == 0 && s.monitor.AfterTransition(ctx, session.ID) {
		return s.store.Get(ctx, session.ID)
	}

	return session, nil
}

// CompleteSet records the result of a pending set of the user's active session.
func (s *Service) CompleteSet(ctx context.Context, userID, setID, repsDone int, weightLifted float64) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.completeSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("set.id", setID))

	if repsDone < 0 {
		return nil, fmt.Errorf("%w: reps done must not be negative", ErrValidation)
	}
	if math.IsNaN(weightLifted) || math.IsInf(weightLifted, 0) || weightLifted < 0 {
		return nil, fmt.Errorf("%w: weight lifted must be a finite number >= 0", ErrValidation)
	}

	return s.transition(ctx, SetTransition{
		UserID:       userID,
		SetID:        setID,
		To:           SetCompleted,
		RepsDone:     &repsDone,
		WeightLifted: &weightLifted,
	})
}

// SkipSet settles a pending set without recording any result.
func (s *Service) SkipSet(ctx context.Context, userID, setID int) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.skipSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("set.id", setID))

	return s.transition(ctx, SetTransition{
		UserID: userID,
		SetID:  setID,
		To:     SetSkipped,
	})
}

func (s *Service) transition(ctx context.Context, transition SetTransition) (*Set, error) {
	transition.At = s.now()
	set, sessionID, err := s.store.TransitionSet(ctx, transition)
	if err != nil {
		return nil, err
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterSetTransitions.WithLabelValues(string(set.Status)).Inc()
	}

	s.monitor.AfterTransition(ctx, sessionID)
	return set, nil
}

// Finish completes the session. Finishing a terminal session returns it unchanged.
func (s *Service) Finish(ctx context.Context, userID, sessionID int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", sessionID))

	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	session, err := s.finish(ctx, sessionID, TriggerExplicit)
	if err != nil {
		return nil, err
	}
	s.reconcile(ctx, session)
	return session, nil
}

// finish is the path shared by explicit finish, the monitor and the sweep.
func (s *Service) finish(ctx context.Context, sessionID int, trigger string) (*Session, error) {
	// only an explicit finish settles what is left, auto finish happens with nothing pending
	skipPending := trigger == TriggerExplicit
	session, finished, err := s.store.Finish(ctx, sessionID, skipPending, s.now())
	if err != nil {
		return nil, fmt.Errorf("finish session %d: %w", sessionID, err)
	}
	if !finished {
		return session, nil
	}

	log.Debugf("session %d finished [%s]", sessionID, trigger)
	if s.metricsManager != nil {
		s.metricsManager.CounterSessionsFinished.WithLabelValues(trigger).Inc()
		if session.DurationMinutes != nil {
			s.metricsManager.HistogramSessionDuration.Observe(float64(*session.DurationMinutes))
		}
	}
	s.record(ctx, session)
	return session, nil
}

// Cancel abandons the active session. Its sets are left as they are.
func (s *Service) Cancel(ctx context.Context, userID, sessionID int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.cancel")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", sessionID))

	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsTerminal() {
		return nil, fmt.Errorf("session %d is %s: %w", sessionID, session.Status, ErrInvalidState)
	}

	session, err = s.store.Cancel(ctx, sessionID, s.now())
	if err != nil {
		return nil, err
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterSessionsCanceled.Inc()
	}
	log.Debugf("session %d canceled", sessionID)

	s.record(ctx, session)
	s.reconcile(ctx, session)
	return session, nil
}

// GetActive returns the user's active session, or nil when there is none.
func (s *Service) GetActive(ctx context.Context, userID int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.getActive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.store.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (s *Service) Get(ctx context.Context, userID, sessionID int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.reconcile(ctx, session)
	return session, nil
}

// List returns a page of the user's finalized sessions, newest first.
func (s *Service) List(ctx context.Context, userID, page, size int) (_ []*Session, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if page < 1 || size < 1 || size > MaxListSize {
		return nil, 0, fmt.Errorf("%w: page must be >= 1, size within [1, %d]", ErrValidation, MaxListSize)
	}

	list, total, err := s.store.List(ctx, userID, page, size)
	if err != nil {
		return nil, 0, err
	}
	for _, session := range list {
		s.reconcile(ctx, session)
	}
	return list, total, nil
}

// SetFeedback stores rating and notes of a completed session.
func (s *Service) SetFeedback(ctx context.Context, userID, sessionID int, rating *int, notes *string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.setFeedback")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if rating != nil && (*rating < MinRating || *rating > MaxRating) {
		return nil, fmt.Errorf("%w: rating must be within [%d, %d]", ErrValidation, MinRating, MaxRating)
	}

	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != StatusCompleted {
		return nil, fmt.Errorf("session %d is %s: %w", sessionID, session.Status, ErrInvalidState)
	}

	if err := s.store.SetFeedback(ctx, sessionID, rating, notes); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, sessionID)
}

// owned loads the session, hiding sessions of other users as not found.
func (s *Service) owned(ctx context.Context, userID, sessionID int) (*Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
	}
	return session, nil
}

func (s *Service) record(ctx context.Context, session *Session) {
	if s.durations == nil {
		return
	}
	if err := s.durations.Record(ctx, session); err != nil {
		log.Warnf("record duration estimate of session %d: %s", session.ID, err)
	}
}

func (s *Service) reconcile(ctx context.Context, session *Session) {
	if s.durations == nil || !session.IsTerminal() {
		return
	}
	minutes, err := s.durations.SessionMinutes(ctx, session)
	if err != nil {
		log.Warnf("reconcile duration of session %d: %s", session.ID, err)
		return
	}
	session.ReconciledMinutes = minutes
}

func (s *Service) countStarted() {
	if s.metricsManager != nil {
		s.metricsManager.CounterSessionsStarted.Inc()
	}
}
