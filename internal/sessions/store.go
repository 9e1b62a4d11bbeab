package sessions

import (
	"context"
	"time"
)

// SetTransition is a single pending -> terminal change of one set.
type SetTransition struct {
	UserID       int
	SetID        int
	To           SetStatus
	RepsDone     *int
	WeightLifted *float64
	At           time.Time
}

// Store persists session trees. Every method is atomic on its own.
type Store interface {
	// Create persists the whole tree and fills in the ids.
	// Returns ErrConflict when the user already has an active session.
	Create(ctx context.Context, session *Session) (*Session, error)
	Get(ctx context.Context, id int) (*Session, error)
	// GetActive returns ErrNotFound when the user has no active session.
	GetActive(ctx context.Context, userID int) (*Session, error)
	// List returns finalized sessions of the user, newest first, without their trees.
	List(ctx context.Context, userID, page, size int) (_ []*Session, total int, err error)

	// TransitionSet applies the change only if the set is pending and its session is active.
	// Returns the owning session id along with the updated set.
	TransitionSet(ctx context.Context, transition SetTransition) (_ *Set, sessionID int, err error)
	CountPending(ctx context.Context, sessionID int) (int, error)

	// Finish completes an active session, returning finished=false when it was already terminal.
	Finish(ctx context.Context, sessionID int, skipPending bool, now time.Time) (_ *Session, finished bool, err error)
	Cancel(ctx context.Context, sessionID int, now time.Time) (*Session, error)
	SetFeedback(ctx context.Context, sessionID int, rating *int, notes *string) error
	// ListStuck returns ids of active sessions without pending sets.
	ListStuck(ctx context.Context, limit int) ([]int, error)
}

// DurationMinutes is the authoritative duration, whole minutes rounded down.
func DurationMinutes(startedAt, completedAt time.Time) int {
	minutes := int(completedAt.Sub(startedAt) / time.Minute)
	if minutes < 0 {
		return 0
	}
	return minutes
}
