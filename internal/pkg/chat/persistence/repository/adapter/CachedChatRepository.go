package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	cache "ucoa-chat/internal/infrastructure/cache/port"
	chat "ucoa-chat/internal/pkg/chat/application/domain"
	repository "ucoa-chat/internal/pkg/chat/persistence/repository/port"
	"ucoa-chat/internal/platform/logger"
)

// CachedChatRepository keeps committed chats in the cache by dedup key.
// A committed chat never changes its dedup key, so entries are never invalidated, only expired.
// Only hits are cached: a miss always reaches the store, which stays the source of truth.
type CachedChatRepository struct {
	repository.ChatRepository
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedChatRepository(inner repository.ChatRepository, c cache.Cache, ttl time.Duration, log *logger.Logger) *CachedChatRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedChatRepository{ChatRepository: inner, cache: c, ttl: ttl, log: log}
}

var _ repository.ChatRepository = (*CachedChatRepository)(nil)

func (r *CachedChatRepository) FindByDedupKey(ctx context.Context, key chat.DedupKey) (*chat.Chat, error) {
	raw, err := r.cache.Get(ctx, cacheKey(key))
	switch {
	case err == nil:
		var c chat.Chat
		if err := json.Unmarshal([]byte(raw), &c); err == nil {
			return &c, nil
		}
		r.log.Warn("dropping undecodable cached chat", "dedup_key", key)
		_, _ = r.cache.Del(ctx, cacheKey(key))
	case !errors.Is(err, cache.ErrMiss):
		r.log.Warn("chat cache read failed", "dedup_key", key, "error", err)
	}

	c, err := r.ChatRepository.FindByDedupKey(ctx, key)
	if err != nil || c == nil {
		return c, err
	}
	r.store(ctx, c)
	return c, nil
}

func (r *CachedChatRepository) CommitNewChat(ctx context.Context, a *chat.ChatAggregate) (*chat.Chat, error) {
	c, err := r.ChatRepository.CommitNewChat(ctx, a)
	if err != nil {
		return nil, err
	}
	r.store(ctx, c)
	return c, nil
}

func (r *CachedChatRepository) store(ctx context.Context, c *chat.Chat) {
	data, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := r.cache.Set(context.WithoutCancel(ctx), cacheKey(c.DedupKey), string(data), r.ttl); err != nil {
		r.log.Warn("chat cache write failed", "dedup_key", c.DedupKey, "error", err)
	}
}

func cacheKey(key chat.DedupKey) string { return "chat:dedup:" + string(key) }
