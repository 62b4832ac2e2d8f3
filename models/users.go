package models

import (
	"time"
)

// CelebrityThreshold - порог подписчиков, после которого пользователь
// считается "селебрити" и исключается из fan-out-on-write
const CelebrityThreshold = 10000

type User struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Nickname    string    `gorm:"size:60;uniqueIndex" json:"nickname"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	Password    string    `gorm:"size:255" json:"-"`
	IsCelebrity bool      `gorm:"index" json:"is_celebrity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type UserTokens struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64  `gorm:"index:user_token_idx,unique" json:"user_id"`
	Token  string `gorm:"size:255;index:user_token_idx,unique" json:"token"`
}

func (UserTokens) TableName() string {
	return "user_tokens"
}

type Migration struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:60;uniqueIndex" json:"name"`
	AppliedAt time.Time `gorm:"autoCreateTime" json:"applied_at"`
}
