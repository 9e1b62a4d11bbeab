package plans

import (
	"context"
	"sync"
	"time"
)

// TestRepo is an in-memory snapshots repo, used in tests.
type TestRepo struct {
	mutex     sync.Mutex
	snapshots map[int]Snapshot
	lastID    int
}

func NewTestRepo() *TestRepo {
	return &TestRepo{
		snapshots: map[int]Snapshot{},
	}
}

func (r *TestRepo) Add(_ context.Context, snapshot Snapshot) (*Snapshot, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.lastID++
	snapshot.ID = r.lastID
	if snapshot.GeneratedAt.IsZero() {
		snapshot.GeneratedAt = time.Now()
	}
	r.snapshots[snapshot.ID] = snapshot
	return &snapshot, nil
}

func (r *TestRepo) Get(_ context.Context, id int) (*Snapshot, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	snapshot, ok := r.snapshots[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return &snapshot, nil
}

func (r *TestRepo) Latest(_ context.Context, userID int) (*Snapshot, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var latest *Snapshot
	for id := range r.snapshots {
		s := r.snapshots[id]
		if s.UserID != userID {
			continue
		}
		if latest == nil || s.GeneratedAt.After(latest.GeneratedAt) ||
			(s.GeneratedAt.Equal(latest.GeneratedAt) && s.ID > latest.ID) {
			latest = &s
		}
	}
	if latest == nil {
		return nil, ErrPlanNotFound
	}
	return latest, nil
}

func (r *TestRepo) Delete(_ context.Context, id, userID int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	snapshot, ok := r.snapshots[id]
	if !ok || snapshot.UserID != userID {
		return ErrPlanNotFound
	}
	delete(r.snapshots, id)
	return nil
}
