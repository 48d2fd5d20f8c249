package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"telegram-igdl-bot/internal/domain"
	"telegram-igdl-bot/internal/domain/model"
	"telegram-igdl-bot/internal/domain/ports/repository"
)

const DefaultSessionKey = "igdl:session"

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo stores the bot session as one JSON value under a single key.
type SessionRepo struct {
	client RedisClient
	key    string
}

func NewSessionRepo(client RedisClient, key string) *SessionRepo {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionRepo{client: client, key: key}
}

func (r *SessionRepo) Load(ctx context.Context) (*model.Session, error) {
	raw, err := r.client.Get(ctx, r.key)
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	var s model.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) Save(ctx context.Context, s *model.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key, b, 0); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}
