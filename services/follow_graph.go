package services

import (
	"context"
	"fmt"

	"microblog/db"
	"microblog/models"
)

// FollowGraphService - read-only запросы к графу подписок и флагу селебрити
type FollowGraphService struct{}

func NewFollowGraphService() *FollowGraphService {
	return &FollowGraphService{}
}

// GetFollowees возвращает id всех, на кого подписан пользователь
func (fg *FollowGraphService) GetFollowees(ctx context.Context, userID int64) ([]int64, error) {
	var followeeIDs []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &followeeIDs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get followees: %v", ErrDataUnavailable, err)
	}
	return followeeIDs, nil
}

// GetFollowers возвращает id всех подписчиков пользователя
func (fg *FollowGraphService) GetFollowers(ctx context.Context, userID int64) ([]int64, error) {
	var followerIDs []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Pluck("follower_id", &followerIDs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get followers: %v", ErrDataUnavailable, err)
	}
	return followerIDs, nil
}

// SplitCelebrities разбивает множество пользователей на селебрити и обычных
// по флагу is_celebrity в профиле
func (fg *FollowGraphService) SplitCelebrities(ctx context.Context, userIDs []int64) (celebrities []int64, regular []int64, err error) {
	if len(userIDs) == 0 {
		return nil, nil, nil
	}

	err = db.GetReadOnlyDB(ctx).
		Model(&models.User{}).
		Where("id IN ? AND is_celebrity = ?", userIDs, true).
		Pluck("id", &celebrities).Error
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to split celebrities: %v", ErrDataUnavailable, err)
	}

	celebSet := make(map[int64]struct{}, len(celebrities))
	for _, id := range celebrities {
		celebSet[id] = struct{}{}
	}
	for _, id := range userIDs {
		if _, ok := celebSet[id]; !ok {
			regular = append(regular, id)
		}
	}
	return celebrities, regular, nil
}

// IsCelebrity возвращает флаг селебрити автора
func (fg *FollowGraphService) IsCelebrity(ctx context.Context, userID int64) (bool, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).
		Select("id", "is_celebrity").
		First(&user, userID).Error
	if err != nil {
		return false, fmt.Errorf("%w: failed to get user %d: %v", ErrDataUnavailable, userID, err)
	}
	return user.IsCelebrity, nil
}
