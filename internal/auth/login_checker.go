package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// UserID resolves the token to the id of the logged user.
// Returns ErrNotLogged for unknown or expired tokens.
func (c *LoginChecker) UserID(ctx context.Context, token string) (int, error) {
	cmd := c.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotLogged
		}
		return 0, err
	}

	userID, createdAt, err := decodeSessionValue(cmd.Val())
	if err != nil {
		return 0, err
	}

	if time.Since(createdAt) > c.ttl {
		return 0, ErrNotLogged
	}

	return userID, nil
}
