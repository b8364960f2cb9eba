package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionTTL is how long an idle session survives.
const SessionTTL = 24 * time.Hour

var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions in Redis as JSON.
type Store struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewStore connects to Redis at redisURL and verifies the connection.
func NewStore(ctx context.Context, redisURL string, logger *slog.Logger) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Connected to Redis for session storage", "addr", opt.Addr)
	return &Store{rdb: rdb, logger: logger}, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

// Load fetches a session by id.
func (st *Store) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	raw, err := st.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &s, nil
}

// Save writes the session and refreshes its TTL.
func (st *Store) Save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", s.ID, err)
	}
	if err := st.rdb.Set(ctx, sessionKey(s.ID), raw, SessionTTL).Err(); err != nil {
		st.logger.Error("Redis SET failed", "session_id", s.ID, "error", err)
		return fmt.Errorf("redis set failed: %w", err)
	}
	st.logger.Debug("Session saved", "session_id", s.ID, "bytes", len(raw))
	return nil
}

// Delete removes a session.
func (st *Store) Delete(ctx context.Context, id string) error {
	if err := st.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (st *Store) Ping(ctx context.Context) error {
	if err := st.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (st *Store) Close() error {
	return st.rdb.Close()
}
