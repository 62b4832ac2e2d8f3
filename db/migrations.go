package db

import (
	"fmt"

	"gorm.io/gorm"
)

// CreateFeedIndexes создает индексы, которые нужны горячим запросам ленты
// и которые AutoMigrate не покрывает (составные, частичные)
func CreateFeedIndexes(db *gorm.DB) error {
	indexes := []string{
		// лента "все": глобальная выборка по времени
		`CREATE INDEX IF NOT EXISTS idx_posts_created_at_desc ON posts (created_at DESC, id DESC);`,
		// посты конкретных авторов (live-чтение селебрити)
		`CREATE INDEX IF NOT EXISTS idx_posts_user_created_at ON posts (user_id, created_at DESC);`,
		// материализованная лента: выборка по владельцу со сдвигом по времени
		`CREATE INDEX IF NOT EXISTS idx_feed_entries_owner_created ON feed_entries (owner_id, post_created_at DESC);`,
		// обход графа: кто подписан на автора (fan-out и инвалидация)
		`CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows (followee_id);`,
	}

	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
