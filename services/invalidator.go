package services

import (
	"context"
	"errors"
	"log"
	"sync"
)

// CacheInvalidator удаляет устаревшие страницы ленты из кеша после записей,
// меняющих их содержимое. Удаления best-effort: промах одного читателя лишь
// продлевает его окно устаревания до TTL, поэтому ошибки не фатальны.
type CacheInvalidator struct {
	cache TimelineCache
	graph *FollowGraphService
}

func NewCacheInvalidator() *CacheInvalidator {
	return NewCacheInvalidatorWithCache(NewTimelineCache())
}

func NewCacheInvalidatorWithCache(cache TimelineCache) *CacheInvalidator {
	return &CacheInvalidator{
		cache: cache,
		graph: NewFollowGraphService(),
	}
}

// InvalidateForUser удаляет обе страницы (all и following) одного читателя.
// Идемпотентно, ошибки только логируются.
func (ci *CacheInvalidator) InvalidateForUser(ctx context.Context, userID int64) {
	for _, filter := range []string{FilterAll, FilterFollowing} {
		if err := ci.cache.Delete(ctx, userID, filter); err != nil {
			if !errors.Is(err, ErrCacheDisabled) {
				log.Printf("WARN: cache invalidation failed for user %d filter %s: %v", userID, filter, err)
				cacheInvalidationsTotal.WithLabelValues("error").Inc()
			}
			continue
		}
		cacheInvalidationsTotal.WithLabelValues("ok").Inc()
	}
}

// InvalidateForFollowersOf удаляет страницы всех прямых подписчиков автора.
// Удаления идут параллельно и независимо друг от друга; селебрити сюда не
// попадают как авторы неограниченного фан-аута - их посты читаются live.
func (ci *CacheInvalidator) InvalidateForFollowersOf(ctx context.Context, authorID int64) error {
	followers, err := ci.graph.GetFollowers(ctx, authorID)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, followerID := range followers {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			ci.InvalidateForUser(ctx, id)
		}(followerID)
	}
	wg.Wait()
	return nil
}
