package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cruxlog/cruxlog/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "cruxlog-session||"
	tokensSetKey     = "cruxlog-sessions"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth_test

type usersRepo interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	Get(ctx context.Context, id int) (*User, error)
}

type Service struct {
	usersRepo   usersRepo
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(
	usersRepo usersRepo,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		usersRepo:      usersRepo,
		redisClient:    redisClient,
		ttl:            ttl,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// Login checks the credentials and creates a new session,
// returning its token. The session value keeps the user id
// together with the creation time for TTL checks.
func (s *Service) Login(ctx context.Context, username, password string, createdAt time.Time) (string, error) {
	user, err := s.usersRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.RandStringFunc(35)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	sessionVal := fmt.Sprintf("%d:%d", user.ID, createdAt.Unix())
	if err := s.redisClient.Set(ctx, sessionKey, sessionVal, 0).Err(); err != nil {
		return "", err
	}

	// add token to the list of sessions
	if err := s.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	sessionKey := sessionKeyPrefix + token
	if err := s.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return err
	}
	return s.redisClient.SRem(ctx, tokensSetKey, token).Err()
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (s *Service) ScanAndClean(ctx context.Context) {
	cmd := s.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Warnln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Warnf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		sessionKey := sessionKeyPrefix + token
		cmd := s.redisClient.Get(ctx, sessionKey)
		if err := cmd.Err(); err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		_, createdAt, err := parseSessionValue(cmd.Val())
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}

		if time.Since(createdAt) > s.ttl {
			log.Warnf("=>\twill clean the session with token: %s", token)
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		sessionKey := sessionKeyPrefix + token
		if err := s.redisClient.Del(ctx, sessionKey).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}
		if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
		}
	}
}

func parseSessionValue(val string) (userID int, createdAt time.Time, err error) {
	parts := strings.SplitN(val, ":", 2)
	if len(parts) != 2 {
		return 0, time.Time{}, fmt.Errorf("malformed session value: %s", val)
	}
	userID, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("malformed session user id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("malformed session created at: %w", err)
	}
	return userID, time.Unix(createdAtUnix, 0), nil
}
