package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"microblog/models"

	"github.com/go-redis/redis/v8"
)

const (
	// TimelineCacheTTL - TTL закешированной первой страницы ленты
	TimelineCacheTTL  = 5 * time.Minute
	timelineKeyPrefix = "timeline:"
)

// TimelineCache - key/value кеш первой страницы ленты по ключу (reader, filter).
// Cache-aside: кеш никогда не авторитетен, любая ошибка равна промаху.
type TimelineCache interface {
	Get(ctx context.Context, readerID int64, filter string) (*models.TimelineResponse, error)
	Set(ctx context.Context, readerID int64, filter string, page *models.TimelineResponse) error
	Delete(ctx context.Context, readerID int64, filter string) error
}

func timelineCacheKey(readerID int64, filter string) string {
	return fmt.Sprintf("%s%d:%s", timelineKeyPrefix, readerID, filter)
}

// redisTimelineCache хранит сериализованную страницу целиком под одним ключом
type redisTimelineCache struct{}

func NewTimelineCache() TimelineCache {
	return &redisTimelineCache{}
}

func (c *redisTimelineCache) Get(ctx context.Context, readerID int64, filter string) (*models.TimelineResponse, error) {
	if RedisClient == nil {
		return nil, ErrCacheDisabled
	}

	data, err := RedisClient.Get(ctx, timelineCacheKey(readerID, filter)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	var page models.TimelineResponse
	if err := json.Unmarshal([]byte(data), &page); err != nil {
		// Битая запись - считаем промахом, она перезапишется
		return nil, nil
	}
	return &page, nil
}

func (c *redisTimelineCache) Set(ctx context.Context, readerID int64, filter string, page *models.TimelineResponse) error {
	if RedisClient == nil {
		return ErrCacheDisabled
	}

	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	err = RedisClient.Set(ctx, timelineCacheKey(readerID, filter), data, TimelineCacheTTL).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (c *redisTimelineCache) Delete(ctx context.Context, readerID int64, filter string) error {
	if RedisClient == nil {
		return ErrCacheDisabled
	}

	if err := RedisClient.Del(ctx, timelineCacheKey(readerID, filter)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}
