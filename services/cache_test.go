package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Без сконфигурированного Redis кеш возвращает ErrCacheDisabled, и он же
// матчится как ErrCacheUnavailable - вызывающему коду достаточно errors.Is
func TestCacheDisabledSentinel(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	require.Nil(t, RedisClient)
	cache := NewTimelineCache()

	_, err := cache.Get(ctx, 1, FilterAll)
	require.ErrorIs(t, err, ErrCacheDisabled)
	require.ErrorIs(t, err, ErrCacheUnavailable)

	err = cache.Set(ctx, 1, FilterAll, makePage(nil, false))
	require.ErrorIs(t, err, ErrCacheDisabled)

	err = cache.Delete(ctx, 1, FilterAll)
	require.ErrorIs(t, err, ErrCacheDisabled)
}

// Выключенный кеш - штатная деградация: лента читается напрямую из БД
func TestTimelineDegradesWithoutCache(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	reader := createTestUser(t, "reader", false)
	author := createTestUser(t, "author", false)
	createTestPost(t, author.ID, "uncached post", time.Now().UTC().Truncate(time.Second))

	require.Nil(t, RedisClient)
	ts := NewTimelineService()

	page, err := ts.GetTimeline(ctx, reader.ID, FilterAll, "", 20)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	require.Equal(t, "uncached post", page.Posts[0].Content)

	// Инвалидация при выключенном кеше - no-op без ошибок в счетчиках
	NewCacheInvalidator().InvalidateForUser(ctx, reader.ID)
}

func TestCacheSentinelWrapping(t *testing.T) {
	require.True(t, errors.Is(ErrCacheDisabled, ErrCacheUnavailable))
	require.False(t, errors.Is(ErrCacheUnavailable, ErrCacheDisabled))
}
