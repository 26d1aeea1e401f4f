package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrNotLoggedIn = errors.New("not logged in")

// LoginChecker resolves a session token to the owning user id.
// Every repo call downstream is scoped by the user id obtained here.
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

// UserIDForToken returns the user id of a valid session,
// or ErrNotLoggedIn for unknown/expired tokens.
func (lc *LoginChecker) UserIDForToken(ctx context.Context, token string) (int, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := lc.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotLoggedIn
		}
		return 0, err
	}

	userID, createdAt, err := parseSessionValue(cmd.Val())
	if err != nil {
		return 0, err
	}

	if time.Since(createdAt) > lc.ttl {
		return 0, ErrNotLoggedIn
	}

	return userID, nil
}

// IsLogged reports whether the token belongs to a live session.
func (lc *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	_, err := lc.UserIDForToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
