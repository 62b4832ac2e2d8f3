package models

import "time"

// Follow - направленное ребро подписки follower -> followee.
// Пара (follower_id, followee_id) уникальна.
type Follow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID int64     `gorm:"index:follow_pair_idx,unique;index" json:"follower_id"`
	FolloweeID int64     `gorm:"index:follow_pair_idx,unique;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
