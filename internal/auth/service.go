package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/gymsessions/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "gymsessions-session||"
	tokensSetKey     = "gymsessions-sessions"
	tokenLength      = 35
)

type usersRepo interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
}

type Service struct {
	usersRepo   usersRepo
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	usersRepo usersRepo,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		usersRepo:      usersRepo,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// Login checks the credentials and stores a new token bound to the user id.
func (as *Service) Login(ctx context.Context, creds Credentials, createdAt time.Time) (string, error) {
	user, err := as.usersRepo.GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// do not reveal which part of the credentials is wrong
			return "", ErrWrongPassword
		}
		return "", err
	}
	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		return "", ErrWrongPassword
	}

	token, err := as.RandStringFunc(tokenLength)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	cmdSet := as.redisClient.Set(ctx, sessionKey, encodeSessionValue(user.ID, createdAt), 0)
	if err := cmdSet.Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := as.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return false, err
	}

	// remove token from the list of sessions
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, err
	}

	return true, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		cmd := as.redisClient.Get(ctx, sessionKeyPrefix+token)
		if err := cmd.Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				// key gone, only the set entry is left
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("auth service, scan and clean token %s: %s", token, err)
			continue
		}

		_, createdAt, err := decodeSessionValue(cmd.Val())
		if err != nil {
			log.Errorf("auth service, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}

		if time.Since(createdAt) > as.ttl {
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		if err := as.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
			log.Errorf("auth service, clean token %s: %s", token, err)
			continue
		}
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("auth service, clean token %s: %s", token, err)
			continue
		}
	}
	log.Debugf("auth service, scan and clean done, removed %d sessions", len(toRemove))
}

// session values are stored as "<user id>:<created at unix>"
func encodeSessionValue(userID int, createdAt time.Time) string {
	return fmt.Sprintf("%d:%d", userID, createdAt.Unix())
}

func decodeSessionValue(val string) (int, time.Time, error) {
	userIDStr, createdAtStr, found := strings.Cut(val, ":")
	if !found {
		return 0, time.Time{}, fmt.Errorf("malformed session value: %q", val)
	}
	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("parse user id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("parse created at: %w", err)
	}
	return userID, time.Unix(createdAtUnix, 0), nil
}
