package models

import "time"

// MaxPostLength - максимальная длина поста в символах (code points)
const MaxPostLength = 280

// Post - модель поста пользователя. Посты неизменяемы после создания.
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Post) TableName() string {
	return "posts"
}

// TimelinePost - пост в ленте с данными автора
type TimelinePost struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Nickname    string    `json:"nickname"`
	DisplayName string    `json:"display_name"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// TimelineResponse - одна страница ленты.
// NextCursor - created_at последнего поста страницы (RFC3339Nano), nil если страница пустая.
type TimelineResponse struct {
	Posts      []TimelinePost `json:"posts"`
	HasMore    bool           `json:"has_more"`
	NextCursor *string        `json:"next_cursor"`
}
