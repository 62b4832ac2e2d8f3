package services

import (
	"context"
	"fmt"
	"log"

	"microblog/db"
	"microblog/models"
)

// FanoutService материализует ленту "подписки": на пост обычного автора
// пишет по строке feed_entries каждому подписчику и самому автору.
// Посты селебрити не разворачиваются - их подписчиков слишком много,
// TimelineService читает такие посты live на стороне чтения.
type FanoutService struct {
	graph       *FollowGraphService
	invalidator *CacheInvalidator
}

func NewFanoutService() *FanoutService {
	return NewFanoutServiceWithCache(NewTimelineCache())
}

func NewFanoutServiceWithCache(cache TimelineCache) *FanoutService {
	return &FanoutService{
		graph:       NewFollowGraphService(),
		invalidator: NewCacheInvalidatorWithCache(cache),
	}
}

// FanOutPost раскладывает пост по лентам подписчиков и инвалидирует их кеш.
// Вызывается воркером очереди либо синхронно, если очередь недоступна.
func (fs *FanoutService) FanOutPost(ctx context.Context, post *models.Post) error {
	isCelebrity, err := fs.graph.IsCelebrity(ctx, post.UserID)
	if err != nil {
		return err
	}
	if isCelebrity {
		fanoutSkippedCelebrity.Inc()
		// Кеш подписчиков всё равно устарел - новый пост должен появиться
		// в их следующей некешированной странице
		return fs.invalidator.InvalidateForFollowersOf(ctx, post.UserID)
	}

	followers, err := fs.graph.GetFollowers(ctx, post.UserID)
	if err != nil {
		return err
	}

	// fan-out-to-self: автор видит собственные посты в своей ленте подписок
	owners := append(followers, post.UserID)

	entries := make([]models.FeedEntry, 0, len(owners))
	for _, ownerID := range owners {
		entries = append(entries, models.FeedEntry{
			OwnerID:       ownerID,
			PostID:        post.ID,
			PostCreatedAt: post.CreatedAt,
		})
	}

	if err := db.GetWriteDB(ctx).CreateInBatches(entries, 500).Error; err != nil {
		return fmt.Errorf("%w: failed to write feed entries: %v", ErrDataUnavailable, err)
	}
	fanoutEntriesTotal.Add(float64(len(entries)))

	if err := fs.invalidator.InvalidateForFollowersOf(ctx, post.UserID); err != nil {
		log.Printf("WARN: follower invalidation failed for author %d: %v", post.UserID, err)
	}

	fs.notifyFollowers(ctx, followers, post)
	return nil
}

// notifyFollowers публикует событие о новом посте для push-доставки.
// RabbitMQ недоступен - шлем напрямую в WebSocket, доставка best-effort.
func (fs *FanoutService) notifyFollowers(ctx context.Context, followers []int64, post *models.Post) {
	for _, followerID := range followers {
		event := FeedEvent{
			UserID:    followerID,
			PostID:    post.ID,
			AuthorID:  post.UserID,
			Content:   post.Content,
			CreatedAt: post.CreatedAt,
		}
		if err := PublishFeedEvent(ctx, event); err != nil {
			sendDirectWSFeedEvent(event)
		}
	}
}
