package leaveform

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	leaveformerrors "go-leaveform/internal/leaveform/errors"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "leaveform:session:"

func SessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func SubmitLockKey(sessionID string) string {
	return SessionKey(sessionID) + ":submit-lock"
}

// SessionStore keeps one FormState per browser session and the lock that
// serializes submits and edits of that session.
//
//go:generate mockgen -source=leaveform_store.go -destination=mock/leaveform_store_mock.go -package=mock
type SessionStore interface {
	Save(ctx context.Context, sessionID string, state FormState) error
	Load(ctx context.Context, sessionID string) (FormState, error)
	AcquireSubmitLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, sessionID string) error
}

type redisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore stores sessions as JSON; every save refreshes the TTL.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{rdb: rdb, ttl: ttl}
}

func (s *redisSessionStore) Save(ctx context.Context, sessionID string, state FormState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, SessionKey(sessionID), string(data), s.ttl).Err()
}

func (s *redisSessionStore) Load(ctx context.Context, sessionID string) (FormState, error) {
	val, err := s.rdb.Get(ctx, SessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return FormState{}, leaveformerrors.ErrSessionNotFound
	}
	if err != nil {
		return FormState{}, err
	}

	var state FormState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return FormState{}, err
	}
	return state, nil
}

func (s *redisSessionStore) AcquireSubmitLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, SubmitLockKey(sessionID), "locked", ttl).Result()
}

func (s *redisSessionStore) ReleaseSubmitLock(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, SubmitLockKey(sessionID)).Err()
}
