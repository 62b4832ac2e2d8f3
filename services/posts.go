package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"microblog/db"
	"microblog/models"
)

// PostService создает посты и запускает fan-out с инвалидацией кеша
type PostService struct {
	fanout      *FanoutService
	invalidator *CacheInvalidator
}

func NewPostService() *PostService {
	return NewPostServiceWithCache(NewTimelineCache())
}

func NewPostServiceWithCache(cache TimelineCache) *PostService {
	return &PostService{
		fanout:      NewFanoutServiceWithCache(cache),
		invalidator: NewCacheInvalidatorWithCache(cache),
	}
}

// CreatePost валидирует и сохраняет пост, затем инвалидирует затронутые
// страницы кеша. Инвалидация ограничивает устаревание кеша, но не обязана
// завершиться до того, как пост станет виден прямым чтением из БД.
func (ps *PostService) CreatePost(ctx context.Context, authorID int64, content string) (*models.Post, error) {
	if authorID == 0 {
		return nil, fmt.Errorf("%w: author id is required", ErrValidation)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: post content is empty", ErrValidation)
	}
	if utf8.RuneCountInString(content) > models.MaxPostLength {
		return nil, fmt.Errorf("%w: post content exceeds %d characters", ErrValidation, models.MaxPostLength)
	}

	post := &models.Post{
		UserID:    authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := db.GetWriteDB(ctx).Create(post).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to create post: %v", ErrDataUnavailable, err)
	}

	// Собственные страницы автора устарели в обоих фильтрах
	ps.invalidator.InvalidateForUser(ctx, authorID)

	// Fan-out через очередь; без очереди - синхронно, чтобы лента
	// подписчиков не зависела от фоновой доставки
	if QueueServiceInstance != nil && RedisClient != nil {
		if err := QueueServiceInstance.EnqueueFanout(ctx, *post); err != nil {
			log.Printf("WARN: fanout enqueue failed for post %d, falling back to sync: %v", post.ID, err)
			ps.runSyncFanout(ctx, post)
		}
	} else {
		ps.runSyncFanout(ctx, post)
	}

	return post, nil
}

func (ps *PostService) runSyncFanout(ctx context.Context, post *models.Post) {
	if err := ps.fanout.FanOutPost(ctx, post); err != nil {
		log.Printf("ERROR: fanout failed for post %d: %v", post.ID, err)
	}
}

// GetPost возвращает пост по id
func (ps *PostService) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	var post models.Post
	if err := db.GetReadOnlyDB(ctx).First(&post, postID).Error; err != nil {
		return nil, fmt.Errorf("%w: post %d not found: %v", ErrDataUnavailable, postID, err)
	}
	return &post, nil
}
