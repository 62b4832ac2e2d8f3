package services

import (
	"context"
	"strings"
	"testing"

	"microblog/db"
	"microblog/models"

	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.ORM.Model(model).Count(&count).Error)
	return count
}

func TestCreatePostValidation(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	author := createTestUser(t, "author", false)
	ps := NewPostServiceWithCache(newMemoryCache())

	// Пустой и состоящий из пробелов контент отклоняется
	_, err := ps.CreatePost(ctx, author.ID, "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = ps.CreatePost(ctx, author.ID, "   \n\t  ")
	require.ErrorIs(t, err, ErrValidation)

	// 281 code point - отказ без записи и без fan-out
	_, err = ps.CreatePost(ctx, author.ID, strings.Repeat("я", 281))
	require.ErrorIs(t, err, ErrValidation)
	require.Zero(t, countRows(t, &models.Post{}))
	require.Zero(t, countRows(t, &models.FeedEntry{}))

	// Ровно 280 code points проходит; длина считается в рунах, не в байтах
	post, err := ps.CreatePost(ctx, author.ID, strings.Repeat("я", 280))
	require.NoError(t, err)
	require.NotZero(t, post.ID)
}

func TestCreatePostFanout(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	author := createTestUser(t, "u1", false)
	follower1 := createTestUser(t, "u2", false)
	follower2 := createTestUser(t, "u3", false)
	createTestFollow(t, follower1.ID, author.ID)
	createTestFollow(t, follower2.ID, author.ID)

	cache := newMemoryCache()
	ps := NewPostServiceWithCache(cache)
	ts := NewTimelineServiceWithCache(cache)

	// Прогреваем кеш подписчика, чтобы проверить инвалидацию
	_, err := ts.GetTimeline(ctx, follower1.ID, FilterFollowing, "", 20)
	require.NoError(t, err)
	require.True(t, cache.contains(follower1.ID, FilterFollowing))

	post, err := ps.CreatePost(ctx, author.ID, "hello")
	require.NoError(t, err)
	require.Equal(t, "hello", post.Content)

	// Fan-out: по строке каждому подписчику плюс самому автору
	var entries []models.FeedEntry
	require.NoError(t, db.ORM.Find(&entries).Error)
	require.Len(t, entries, 3)

	owners := make(map[int64]bool)
	for _, e := range entries {
		require.Equal(t, post.ID, e.PostID)
		owners[e.OwnerID] = true
	}
	require.True(t, owners[follower1.ID])
	require.True(t, owners[follower2.ID])
	require.True(t, owners[author.ID])

	// Кеш подписчика сброшен, свежая страница начинается с нового поста
	require.False(t, cache.contains(follower1.ID, FilterFollowing))

	page, err := ts.GetTimeline(ctx, follower1.ID, FilterFollowing, "", 20)
	require.NoError(t, err)
	require.NotEmpty(t, page.Posts)
	require.Equal(t, "hello", page.Posts[0].Content)
}

func TestCelebrityExclusionFromFanout(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	celebrity := createTestUser(t, "u4", true)
	follower := createTestUser(t, "u5", false)
	createTestFollow(t, follower.ID, celebrity.ID)

	cache := newMemoryCache()
	ps := NewPostServiceWithCache(cache)
	ts := NewTimelineServiceWithCache(cache)

	post, err := ps.CreatePost(ctx, celebrity.ID, "breaking news")
	require.NoError(t, err)

	// Пост селебрити никогда не материализуется в feed_entries
	require.Zero(t, countRows(t, &models.FeedEntry{}))

	// Но в ленте подписчика он есть - через live-выборку при слиянии
	page, err := ts.GetTimeline(ctx, follower.ID, FilterFollowing, "", 20)
	require.NoError(t, err)
	require.NotEmpty(t, page.Posts)
	require.Equal(t, post.ID, page.Posts[0].ID)
	require.Equal(t, "breaking news", page.Posts[0].Content)
}

func TestCreatePostInvalidatesAuthor(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	author := createTestUser(t, "author", false)

	cache := newMemoryCache()
	ps := NewPostServiceWithCache(cache)
	ts := NewTimelineServiceWithCache(cache)

	// Обе страницы автора в кеше
	_, err := ts.GetTimeline(ctx, author.ID, FilterAll, "", 20)
	require.NoError(t, err)
	_, err = ts.GetTimeline(ctx, author.ID, FilterFollowing, "", 20)
	require.NoError(t, err)
	require.True(t, cache.contains(author.ID, FilterAll))
	require.True(t, cache.contains(author.ID, FilterFollowing))

	_, err = ps.CreatePost(ctx, author.ID, "my own post")
	require.NoError(t, err)

	require.False(t, cache.contains(author.ID, FilterAll))
	require.False(t, cache.contains(author.ID, FilterFollowing))
}
