package sessions

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

var _ Store = (*TestStore)(nil)

// TestStore keeps session trees in memory, used in tests.
// It follows the same atomicity rules as the postgres repo.
type TestStore struct {
	mutex    sync.Mutex
	sessions map[int]*Session
	lastID   int

	finishErrors []error
	finishCalls  int
}

func NewTestStore() *TestStore {
	return &TestStore{
		sessions: map[int]*Session{},
	}
}

// FailNextFinish makes the next Finish call return err without applying anything.
func (s *TestStore) FailNextFinish(err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.finishErrors = append(s.finishErrors, err)
}

// FinishCalls counts Finish calls that actually completed a session.
func (s *TestStore) FinishCalls() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.finishCalls
}

// DetachPlan nulls the plan reference of every session started from the plan,
// like the plan_id foreign key does when a plan row is deleted.
func (s *TestStore) DetachPlan(planID int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, session := range s.sessions {
		if session.PlanID != nil && *session.PlanID == planID {
			session.PlanID = nil
		}
	}
}

func (s *TestStore) nextID() int {
	s.lastID++
	return s.lastID
}

func (s *TestStore) Create(_ context.Context, session *Session) (*Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, existing := range s.sessions {
		if existing.UserID == session.UserID && existing.Status == StatusActive {
			return nil, ErrConflict
		}
	}

	stored := cloneSession(session)
	stored.ID = s.nextID()
	for _, d := range stored.Days {
		d.ID = s.nextID()
		d.SessionID = stored.ID
		for _, e := range d.Exercises {
			e.ID = s.nextID()
			e.SessionDayID = d.ID
			for _, set := range e.Sets {
				set.ID = s.nextID()
				set.SessionExerciseID = e.ID
			}
		}
	}
	s.sessions[stored.ID] = stored

	return cloneSession(stored), nil
}

func (s *TestStore) Get(_ context.Context, id int) (*Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	return cloneSession(session), nil
}

func (s *TestStore) GetActive(_ context.Context, userID int) (*Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, session := range s.sessions {
		if session.UserID == userID && session.Status == StatusActive {
			return cloneSession(session), nil
		}
	}
	return nil, fmt.Errorf("active session of user %d: %w", userID, ErrNotFound)
}

func (s *TestStore) List(_ context.Context, userID, page, size int) ([]*Session, int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var finalized []*Session
	for _, session := range s.sessions {
		if session.UserID == userID && session.IsTerminal() {
			finalized = append(finalized, session)
		}
	}
	sort.Slice(finalized, func(i, j int) bool {
		if finalized[i].StartedAt.Equal(finalized[j].StartedAt) {
			return finalized[i].ID > finalized[j].ID
		}
		return finalized[i].StartedAt.After(finalized[j].StartedAt)
	})

	total := len(finalized)
	start := (page - 1) * size
	if start >= total {
		return []*Session{}, total, nil
	}
	end := min(start+size, total)

	list := make([]*Session, 0, end-start)
	for _, session := range finalized[start:end] {
		c := cloneSession(session)
		c.Days = nil
		list = append(list, c)
	}
	return list, total, nil
}

func (s *TestStore) TransitionSet(_ context.Context, transition SetTransition) (*Set, int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, session := range s.sessions {
		set := session.FindSet(transition.SetID)
		if set == nil {
			continue
		}
		if session.UserID != transition.UserID {
			return nil, 0, fmt.Errorf("set %d: %w", transition.SetID, ErrNotFound)
		}
		if set.Status != SetPending {
			return nil, 0, fmt.Errorf("set %d is %s: %w", set.ID, set.Status, ErrInvalidState)
		}
		if session.Status != StatusActive {
			return nil, 0, fmt.Errorf("session %d is %s: %w", session.ID, session.Status, ErrInvalidState)
		}

		at := transition.At
		set.Status = transition.To
		set.RepsDone = cloneIntPtr(transition.RepsDone)
		set.WeightLifted = cloneFloatPtr(transition.WeightLifted)
		set.SettledAt = &at

		setCopy := *set
		return &setCopy, session.ID, nil
	}
	return nil, 0, fmt.Errorf("set %d: %w", transition.SetID, ErrNotFound)
}

func (s *TestStore) CountPending(_ context.Context, sessionID int) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return 0, fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
	}
	return session.PendingSets(), nil
}

func (s *TestStore) Finish(_ context.Context, sessionID int, skipPending bool, now time.Time) (*Session, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.finishErrors) > 0 {
		err := s.finishErrors[0]
		s.finishErrors = s.finishErrors[1:]
		return nil, false, err
	}

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, false, fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
	}
	if session.IsTerminal() {
		return cloneSession(session), false, nil
	}

	if session.CompletedAt == nil {
		completedAt := now
		session.CompletedAt = &completedAt
	}
	duration := DurationMinutes(session.StartedAt, *session.CompletedAt)
	session.DurationMinutes = &duration
	session.Status = StatusCompleted
	if skipPending {
		for _, set := range session.AllSets() {
			if set.Status == SetPending {
				settledAt := now
				set.Status = SetSkipped
				set.SettledAt = &settledAt
			}
		}
	}
	s.finishCalls++

	return cloneSession(session), true, nil
}

func (s *TestStore) Cancel(_ context.Context, sessionID int, now time.Time) (*Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
	}
	if session.IsTerminal() {
		return nil, fmt.Errorf("session %d is %s: %w", sessionID, session.Status, ErrInvalidState)
	}

	completedAt := now
	session.CompletedAt = &completedAt
	session.Status = StatusCanceled

	return cloneSession(session), nil
}

func (s *TestStore) SetFeedback(_ context.Context, sessionID int, rating *int, notes *string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
	}
	if session.Status != StatusCompleted {
		return fmt.Errorf("session %d is %s: %w", sessionID, session.Status, ErrInvalidState)
	}
	if rating != nil {
		session.Rating = cloneIntPtr(rating)
	}
	if notes != nil {
		n := *notes
		session.Notes = &n
	}
	return nil
}

func (s *TestStore) ListStuck(_ context.Context, limit int) ([]int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var ids []int
	for id, session := range s.sessions {
		if session.Status == StatusActive && session.PendingSets() == 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func cloneSession(s *Session) *Session {
	c := *s
	c.PlanID = cloneIntPtr(s.PlanID)
	c.DurationMinutes = cloneIntPtr(s.DurationMinutes)
	c.Rating = cloneIntPtr(s.Rating)
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	if s.Notes != nil {
		n := *s.Notes
		c.Notes = &n
	}
	if s.Days == nil {
		return &c
	}
	c.Days = make([]*Day, 0, len(s.Days))
	for _, d := range s.Days {
		dc := *d
		dc.Exercises = make([]*Exercise, 0, len(d.Exercises))
		for _, e := range d.Exercises {
			ec := *e
			ec.Sets = make([]*Set, 0, len(e.Sets))
			for _, set := range e.Sets {
				sc := *set
				sc.RepsDone = cloneIntPtr(set.RepsDone)
				sc.WeightLifted = cloneFloatPtr(set.WeightLifted)
				if set.SettledAt != nil {
					t := *set.SettledAt
					sc.SettledAt = &t
				}
				ec.Sets = append(ec.Sets, &sc)
			}
			dc.Exercises = append(dc.Exercises, &ec)
		}
		c.Days = append(c.Days, &dc)
	}
	return &c
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
