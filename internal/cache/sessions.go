package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// StoreSession отмечает сессию живой до истечения ttl. Значение - id пользователя.
func (c *Cache) StoreSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	const op = "cache.StoreSession"
	if ttl <= 0 {
		return fmt.Errorf("%s: non-positive ttl %s", op, ttl)
	}
	if err := c.Db.Set(ctx, sessionKey(sessionID), userID, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SessionAlive сообщает, что сессия не отозвана и принадлежит userID.
func (c *Cache) SessionAlive(ctx context.Context, sessionID, userID string) (bool, error) {
	const op = "cache.SessionAlive"
	owner, err := c.Db.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return owner == userID, nil
}

// RevokeSession удаляет сессию. Повторный вызов не считается ошибкой.
func (c *Cache) RevokeSession(ctx context.Context, sessionID string) error {
	const op = "cache.RevokeSession"
	if err := c.Db.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
