package models

import "time"

// FeedEntry - материализованная строка ленты "подписки": пост post_id должен
// попасть в ленту owner_id без join'а. Заполняется fan-out'ом только для
// постов обычных авторов, для селебрити строки не создаются.
type FeedEntry struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID       int64     `gorm:"index:feed_owner_created_idx" json:"owner_id"`
	PostID        int64     `gorm:"index" json:"post_id"`
	PostCreatedAt time.Time `gorm:"index:feed_owner_created_idx" json:"post_created_at"`
}

func (FeedEntry) TableName() string {
	return "feed_entries"
}
