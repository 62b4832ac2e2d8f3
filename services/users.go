package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"microblog/db"
	"microblog/models"

	"golang.org/x/crypto/argon2"
)

// UserService - регистрация, вход и обслуживание профилей
type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func verifyPassword(password, stored string) bool {
	parts := strings.SplitN(stored, "$", 2)
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return subtle.ConstantTimeCompare(hash, expected) == 1
}

// Register создает пользователя с уникальным никнеймом
func (us *UserService) Register(ctx context.Context, nickname, displayName, password string) (*models.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" || password == "" {
		return nil, fmt.Errorf("%w: nickname and password are required", ErrValidation)
	}

	var alreadyExists int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).Where("nickname = ?", nickname).Count(&alreadyExists).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check nickname: %v", ErrDataUnavailable, err)
	}
	if alreadyExists > 0 {
		return nil, fmt.Errorf("%w: user already exists", ErrValidation)
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = nickname
	}

	user := &models.User{
		Nickname:    nickname,
		DisplayName: displayName,
		Password:    passwordHash,
	}
	if err := db.GetWriteDB(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to create user: %v", ErrDataUnavailable, err)
	}
	return user, nil
}

// Login проверяет пароль и выдает токен сессии
func (us *UserService) Login(ctx context.Context, nickname, password string) (string, int64, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("nickname = ?", nickname).First(&user).Error
	if err != nil {
		return "", 0, fmt.Errorf("%w: invalid credentials", ErrAuthRequired)
	}

	if !verifyPassword(password, user.Password) {
		return "", 0, fmt.Errorf("%w: invalid credentials", ErrAuthRequired)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", 0, err
	}
	token := hex.EncodeToString(raw)

	err = db.GetWriteDB(ctx).Create(&models.UserTokens{UserID: user.ID, Token: token}).Error
	if err != nil {
		return "", 0, fmt.Errorf("%w: failed to store token: %v", ErrDataUnavailable, err)
	}
	return token, user.ID, nil
}

// Logout удаляет токен сессии
func (us *UserService) Logout(ctx context.Context, userID int64, token string) error {
	return db.GetWriteDB(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.UserTokens{}).Error
}

// ResolveToken возвращает id пользователя по токену сессии
func (us *UserService) ResolveToken(ctx context.Context, token string) (int64, error) {
	var userToken models.UserTokens
	err := db.GetReadOnlyDB(ctx).Where("token = ?", token).First(&userToken).Error
	if err != nil {
		return 0, fmt.Errorf("%w: invalid token", ErrAuthRequired)
	}
	return userToken.UserID, nil
}

// GetUser возвращает профиль по id
func (us *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if err := db.GetReadOnlyDB(ctx).First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("%w: user %d not found: %v", ErrDataUnavailable, userID, err)
	}
	return &user, nil
}

// RecalculateCelebrityFlags пересчитывает is_celebrity по числу подписчиков.
// Ядро ленты флаг только читает; пересчет - обслуживающая операция,
// запускается админским эндпоинтом или по расписанию.
func (us *UserService) RecalculateCelebrityFlags(ctx context.Context) (int64, error) {
	type followerCount struct {
		FolloweeID int64
		Cnt        int64
	}

	var counts []followerCount
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Select("followee_id, COUNT(*) as cnt").
		Group("followee_id").
		Having("COUNT(*) >= ?", models.CelebrityThreshold).
		Scan(&counts).Error
	if err != nil {
		return 0, fmt.Errorf("%w: failed to count followers: %v", ErrDataUnavailable, err)
	}

	celebIDs := make([]int64, 0, len(counts))
	for _, c := range counts {
		celebIDs = append(celebIDs, c.FolloweeID)
	}

	// Сбрасываем флаг у выпавших из порога, выставляем у превысивших
	tx := db.GetWriteDB(ctx).Model(&models.User{})
	if len(celebIDs) > 0 {
		if err := tx.Where("id NOT IN ?", celebIDs).Update("is_celebrity", false).Error; err != nil {
			return 0, fmt.Errorf("%w: failed to reset celebrity flags: %v", ErrDataUnavailable, err)
		}
		res := db.GetWriteDB(ctx).Model(&models.User{}).Where("id IN ?", celebIDs).Update("is_celebrity", true)
		if res.Error != nil {
			return 0, fmt.Errorf("%w: failed to set celebrity flags: %v", ErrDataUnavailable, res.Error)
		}
		return int64(len(celebIDs)), nil
	}

	if err := tx.Where("is_celebrity = ?", true).Update("is_celebrity", false).Error; err != nil {
		return 0, fmt.Errorf("%w: failed to reset celebrity flags: %v", ErrDataUnavailable, err)
	}
	return 0, nil
}
