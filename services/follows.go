package services

import (
	"context"
	"fmt"
	"time"

	"microblog/db"
	"microblog/models"

	"gorm.io/gorm/clause"
)

// FollowService управляет ребрами подписки и целевой инвалидацией кеша
type FollowService struct {
	invalidator *CacheInvalidator
}

func NewFollowService() *FollowService {
	return NewFollowServiceWithCache(NewTimelineCache())
}

func NewFollowServiceWithCache(cache TimelineCache) *FollowService {
	return &FollowService{
		invalidator: NewCacheInvalidatorWithCache(cache),
	}
}

// ToggleFollow создает либо удаляет ребро подписки и возвращает новое
// состояние. Повторная вставка и удаление отсутствующего ребра - no-op.
// Инвалидируется только кеш подписчика: состав его ленты изменился,
// лента followee от этого ребра не зависит.
func (fs *FollowService) ToggleFollow(ctx context.Context, followerID, followeeID int64, currentlyFollowing bool) (bool, error) {
	if followeeID == 0 {
		return currentlyFollowing, fmt.Errorf("%w: followee id is required", ErrValidation)
	}

	if currentlyFollowing {
		err := db.GetWriteDB(ctx).
			Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&models.Follow{}).Error
		if err != nil {
			return currentlyFollowing, fmt.Errorf("%w: failed to unfollow: %v", ErrDataUnavailable, err)
		}
	} else {
		follow := models.Follow{
			FollowerID: followerID,
			FolloweeID: followeeID,
			CreatedAt:  time.Now().UTC(),
		}
		err := db.GetWriteDB(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&follow).Error
		if err != nil {
			return currentlyFollowing, fmt.Errorf("%w: failed to follow: %v", ErrDataUnavailable, err)
		}

		// Уведомляем followee о новом подписчике, доставка best-effort
		_ = SendWsNotify(followeeID, "follow", fmt.Sprintf("user %d started following you", followerID))
	}

	fs.invalidator.InvalidateForUser(ctx, followerID)

	return !currentlyFollowing, nil
}

// GetFollowees возвращает профили всех, на кого подписан пользователь
func (fs *FollowService) GetFollowees(ctx context.Context, userID int64) ([]models.User, error) {
	var users []models.User
	err := db.GetReadOnlyDB(ctx).
		Table("users u").
		Joins("JOIN follows f ON f.followee_id = u.id").
		Where("f.follower_id = ?", userID).
		Select("u.id, u.nickname, u.display_name, u.is_celebrity, u.created_at").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get followees: %v", ErrDataUnavailable, err)
	}
	return users, nil
}
