package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/2beens/gymsessions/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	durationsKeyPrefix         = "gymsessions-durations||"
	DefaultDurationsTTL        = 180 * 24 * time.Hour
	DefaultDurationsMaxPerUser = 500
)

// DurationEstimate is the locally retained duration of one terminal session.
type DurationEstimate struct {
	UserID      int       `json:"user_id"`
	SessionID   int       `json:"session_id"`
	Minutes     int       `json:"minutes"`
	CompletedAt time.Time `json:"completed_at"`
	Canceled    bool      `json:"canceled,omitempty"`
}

// DurationReconciler keeps a bounded per-user side-table of duration estimates in redis
// (one hash per user, one field per session id, latest write wins).
// It only supplements the authoritative duration, it never writes it.
type DurationReconciler struct {
	redisClient *redis.Client
	ttl         time.Duration
	maxPerUser  int
	now         func() time.Time
}

func NewDurationReconciler(redisClient *redis.Client, ttl time.Duration, maxPerUser int) *DurationReconciler {
	if ttl <= 0 {
		ttl = DefaultDurationsTTL
	}
	if maxPerUser <= 0 {
		maxPerUser = DefaultDurationsMaxPerUser
	}
	return &DurationReconciler{
		redisClient: redisClient,
		ttl:         ttl,
		maxPerUser:  maxPerUser,
		now:         time.Now,
	}
}

// EstimateMinutes rounds up to whole minutes, with a minimum of one.
func EstimateMinutes(startedAt, end time.Time) int {
	elapsed := end.Sub(startedAt)
	minutes := int(elapsed / time.Minute)
	if elapsed%time.Minute > 0 {
		minutes++
	}
	return max(1, minutes)
}

func durationsKey(userID int) string {
	return durationsKeyPrefix + strconv.Itoa(userID)
}

// Record stores the estimate of a session that just reached a terminal state.
func (d *DurationReconciler) Record(ctx context.Context, session *Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "durations.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", session.ID))

	end := d.now()
	if session.CompletedAt != nil {
		end = *session.CompletedAt
	}
	estimate := DurationEstimate{
		UserID:      session.UserID,
		SessionID:   session.ID,
		Minutes:     EstimateMinutes(session.StartedAt, end),
		CompletedAt: end,
		Canceled:    session.Status == StatusCanceled,
	}
	estimateJson, err := json.Marshal(estimate)
	if err != nil {
		return fmt.Errorf("marshal estimate: %w", err)
	}

	key := durationsKey(session.UserID)
	if err := d.redisClient.HSet(ctx, key, strconv.Itoa(session.ID), string(estimateJson)).Err(); err != nil {
		return fmt.Errorf("store estimate: %w", err)
	}
	if err := d.redisClient.Expire(ctx, key, d.ttl).Err(); err != nil {
		return fmt.Errorf("refresh estimates ttl: %w", err)
	}

	return d.evictOverflow(ctx, session.UserID)
}

// evictOverflow drops the oldest estimates once the user has more than maxPerUser.
func (d *DurationReconciler) evictOverflow(ctx context.Context, userID int) error {
	key := durationsKey(userID)
	count, err := d.redisClient.HLen(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("count estimates: %w", err)
	}
	if int(count) <= d.maxPerUser {
		return nil
	}

	estimates, err := d.Estimates(ctx, userID)
	if err != nil {
		return err
	}
	sort.Slice(estimates, func(i, j int) bool {
		if estimates[i].CompletedAt.Equal(estimates[j].CompletedAt) {
			return estimates[i].SessionID < estimates[j].SessionID
		}
		return estimates[i].CompletedAt.Before(estimates[j].CompletedAt)
	})

	overflow := len(estimates) - d.maxPerUser
	if overflow <= 0 {
		return nil
	}
	fields := make([]string, 0, overflow)
	for _, e := range estimates[:overflow] {
		fields = append(fields, strconv.Itoa(e.SessionID))
	}
	if err := d.redisClient.HDel(ctx, key, fields...).Err(); err != nil {
		return fmt.Errorf("evict estimates: %w", err)
	}
	log.Debugf("durations: evicted %d estimates of user %d", len(fields), userID)

	return nil
}

// Estimates returns all retained estimates of the user, malformed entries are skipped.
func (d *DurationReconciler) Estimates(ctx context.Context, userID int) ([]DurationEstimate, error) {
	entries, err := d.redisClient.HGetAll(ctx, durationsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get estimates: %w", err)
	}

	estimates := make([]DurationEstimate, 0, len(entries))
	for field, val := range entries {
		var estimate DurationEstimate
		if err := json.Unmarshal([]byte(val), &estimate); err != nil {
			log.Warnf("durations: malformed estimate %s of user %d: %s", field, userID, err)
			continue
		}
		estimates = append(estimates, estimate)
	}
	return estimates, nil
}

// SessionMinutes prefers the authoritative duration when it is positive.
// Otherwise it returns the estimate of this session only, other sessions' minutes never leak in.
func (d *DurationReconciler) SessionMinutes(ctx context.Context, session *Session) (int, error) {
	if session.DurationMinutes != nil && *session.DurationMinutes > 0 {
		return *session.DurationMinutes, nil
	}

	val, err := d.redisClient.HGet(ctx, durationsKey(session.UserID), strconv.Itoa(session.ID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get estimate: %w", err)
	}

	var estimate DurationEstimate
	if err := json.Unmarshal([]byte(val), &estimate); err != nil {
		return 0, fmt.Errorf("unmarshal estimate: %w", err)
	}
	return estimate.Minutes, nil
}

// TotalMinutes returns the authoritative total when positive, otherwise the sum of the
// user's estimates of non-canceled sessions completed at or after since (zero since means all).
func (d *DurationReconciler) TotalMinutes(ctx context.Context, userID, authoritativeTotal int, since time.Time) (int, error) {
	if authoritativeTotal > 0 {
		return authoritativeTotal, nil
	}

	estimates, err := d.Estimates(ctx, userID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, e := range estimates {
		if e.Canceled || e.UserID != userID {
			continue
		}
		if !since.IsZero() && e.CompletedAt.Before(since) {
			continue
		}
		total += e.Minutes
	}
	return total, nil
}
