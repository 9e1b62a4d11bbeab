package plans

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/2beens/gymsessions/internal/telemetry/metrics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=cached_repo_mocks_test.go -package=plans_test

const (
	megabyte           = 1024 * 1024
	planCacheExpireS   = 60 * 60 * 24 // snapshots never change, only memory pressure evicts
	planCacheKeyPrefix = "plan::"
)

type snapshotsRepo interface {
	Add(ctx context.Context, snapshot Snapshot) (*Snapshot, error)
	Delete(ctx context.Context, id, userID int) error
	Get(ctx context.Context, id int) (*Snapshot, error)
	Latest(ctx context.Context, userID int) (*Snapshot, error)
}

// CachedRepo keeps recently used snapshots in memory, keyed by plan id.
type CachedRepo struct {
	repo           snapshotsRepo
	cache          *freecache.Cache
	metricsManager *metrics.Manager
}

func NewCachedRepo(repo snapshotsRepo, cacheSizeMB int, metricsManager *metrics.Manager) *CachedRepo {
	return &CachedRepo{
		repo:           repo,
		cache:          freecache.NewCache(cacheSizeMB * megabyte),
		metricsManager: metricsManager,
	}
}

func (r *CachedRepo) Add(ctx context.Context, snapshot Snapshot) (*Snapshot, error) {
	added, err := r.repo.Add(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	r.store(added)
	return added, nil
}

func (r *CachedRepo) Get(ctx context.Context, id int) (*Snapshot, error) {
	if cachedBytes, err := r.cache.Get(cacheKey(id)); err == nil {
		var snapshot Snapshot
		if err := json.Unmarshal(cachedBytes, &snapshot); err == nil {
			r.countLookup("hit")
			return &snapshot, nil
		} else {
			log.Errorf("unmarshal cached plan %d: %s", id, err)
		}
	}
	r.countLookup("miss")

	snapshot, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(snapshot)
	return snapshot, nil
}

func (r *CachedRepo) Latest(ctx context.Context, userID int) (*Snapshot, error) {
	snapshot, err := r.repo.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.store(snapshot)
	return snapshot, nil
}

func (r *CachedRepo) Delete(ctx context.Context, id, userID int) error {
	if err := r.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	r.cache.Del(cacheKey(id))
	return nil
}

func (r *CachedRepo) store(snapshot *Snapshot) {
	snapshotBytes, err := json.Marshal(snapshot)
	if err != nil {
		log.Errorf("marshal plan %d for cache: %s", snapshot.ID, err)
		return
	}
	if err := r.cache.Set(cacheKey(snapshot.ID), snapshotBytes, planCacheExpireS); err != nil {
		log.Warnf("cache plan %d: %s", snapshot.ID, err)
	}
}

func (r *CachedRepo) countLookup(result string) {
	if r.metricsManager != nil {
		r.metricsManager.CounterPlanCacheLookups.WithLabelValues(result).Inc()
	}
}

func cacheKey(id int) []byte {
	return []byte(planCacheKeyPrefix + strconv.Itoa(id))
}
