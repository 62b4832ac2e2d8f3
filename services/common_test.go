package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"microblog/db"
	"microblog/models"

	"github.com/stretchr/testify/require"
)

// setupTestDB поднимает in-memory sqlite и чистит таблицы между тестами
func setupTestDB(t *testing.T) {
	t.Helper()
	if db.ORM == nil {
		require.NoError(t, db.ConnectTestDB())
	}
	for _, table := range []string{"feed_entries", "follows", "posts", "user_tokens", "users"} {
		require.NoError(t, db.ORM.Exec("DELETE FROM "+table).Error)
	}
}

// memoryCache - in-process замена Redis-кеша для тестов. Хранит
// сериализованные страницы, как это делает redis-реализация.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, readerID int64, filter string) (*models.TimelineResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[timelineCacheKey(readerID, filter)]
	if !ok {
		return nil, nil
	}
	var page models.TimelineResponse
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, nil
	}
	return &page, nil
}

func (c *memoryCache) Set(ctx context.Context, readerID int64, filter string, page *models.TimelineResponse) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[timelineCacheKey(readerID, filter)] = data
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, readerID int64, filter string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, timelineCacheKey(readerID, filter))
	return nil
}

func (c *memoryCache) contains(readerID int64, filter string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[timelineCacheKey(readerID, filter)]
	return ok
}

func createTestUser(t *testing.T, nickname string, celebrity bool) *models.User {
	t.Helper()
	user := &models.User{
		Nickname:    fmt.Sprintf("%s_%d", nickname, time.Now().UnixNano()),
		DisplayName: nickname,
		IsCelebrity: celebrity,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, db.ORM.Create(user).Error)
	return user
}

func createTestFollow(t *testing.T, followerID, followeeID int64) {
	t.Helper()
	follow := &models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, db.ORM.Create(follow).Error)
}

// createTestPost пишет пост напрямую в БД, без fan-out
func createTestPost(t *testing.T, userID int64, content string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:    userID,
		Content:   content,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.ORM.Create(post).Error)
	return post
}

func createTestFeedEntry(t *testing.T, ownerID int64, post *models.Post) {
	t.Helper()
	entry := &models.FeedEntry{
		OwnerID:       ownerID,
		PostID:        post.ID,
		PostCreatedAt: post.CreatedAt,
	}
	require.NoError(t, db.ORM.Create(entry).Error)
}
