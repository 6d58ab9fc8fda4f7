package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps each refresh session in a hash under
// "<prefix><refreshToken>" and lets Redis expire it at ExpiresAt.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(refresh string) string {
	return r.prefix + refresh
}

func (r *RedisRepository) Create(ctx context.Context, s *Session) error {
	stamp(s)
	key := r.key(s.RefreshToken)
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, map[string]interface{}{
			"id":        s.ID,
			"sub":       s.Sub,
			"createdAt": s.CreatedAt.Format(time.RFC3339Nano),
			"expiresAt": s.ExpiresAt.Format(time.RFC3339Nano),
		})
		p.PExpireAt(ctx, key, s.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// GetByRefresh returns nil, nil for unknown or expired tokens.
func (r *RedisRepository) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	fields, err := r.client.HGetAll(ctx, r.key(refresh)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	s := &Session{ID: fields["id"], RefreshToken: refresh, Sub: fields["sub"]}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["createdAt"]); err != nil {
		return nil, fmt.Errorf("session %s: created: %w", r.key(refresh), err)
	}
	if s.ExpiresAt, err = time.Parse(time.RFC3339Nano, fields["expiresAt"]); err != nil {
		return nil, fmt.Errorf("session %s: expiry: %w", r.key(refresh), err)
	}
	if s.Expired(time.Now().UTC()) {
		_ = r.DeleteByRefresh(ctx, refresh)
		return nil, nil
	}
	return s, nil
}

func (r *RedisRepository) DeleteByRefresh(ctx context.Context, refresh string) error {
	return r.client.Del(ctx, r.key(refresh)).Err()
}
