package auth

import (
	"context"
	"sync"
)

// LoginTestChecker is an in-memory token resolver for tests.
type LoginTestChecker struct {
	mutex  sync.Mutex
	tokens map[string]int
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		tokens: map[string]int{},
	}
}

func (c *LoginTestChecker) AddToken(token string, userID int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.tokens[token] = userID
}

func (c *LoginTestChecker) UserID(_ context.Context, token string) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	userID, ok := c.tokens[token]
	if !ok {
		return 0, ErrNotLogged
	}
	return userID, nil
}
