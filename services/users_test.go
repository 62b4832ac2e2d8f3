package services

import (
	"context"
	"testing"
	"time"

	"microblog/db"
	"microblog/models"

	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	us := NewUserService()

	user, err := us.Register(ctx, "alice", "Alice", "secret123")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEqual(t, "secret123", user.Password, "password must be stored hashed")

	// Повторная регистрация с тем же никнеймом отклоняется
	_, err = us.Register(ctx, "alice", "Another Alice", "secret123")
	require.ErrorIs(t, err, ErrValidation)

	// Неверный пароль
	_, _, err = us.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrAuthRequired)

	token, userID, err := us.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)
	require.NotEmpty(t, token)

	resolved, err := us.ResolveToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved)

	require.NoError(t, us.Logout(ctx, user.ID, token))
	_, err = us.ResolveToken(ctx, token)
	require.ErrorIs(t, err, ErrAuthRequired)
}

func TestRecalculateCelebrityFlags(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	star := createTestUser(t, "star", false)
	regular := createTestUser(t, "regular", false)

	// Набираем подписчиков сверх порога одной пачкой
	followers := make([]models.Follow, 0, models.CelebrityThreshold)
	for i := 0; i < models.CelebrityThreshold; i++ {
		followers = append(followers, models.Follow{
			FollowerID: int64(1000000 + i),
			FolloweeID: star.ID,
			CreatedAt:  time.Now().UTC(),
		})
	}
	require.NoError(t, db.ORM.CreateInBatches(followers, 1000).Error)
	createTestFollow(t, star.ID, regular.ID)

	us := NewUserService()

	count, err := us.RecalculateCelebrityFlags(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	updated, err := us.GetUser(ctx, star.ID)
	require.NoError(t, err)
	require.True(t, updated.IsCelebrity)

	unchanged, err := us.GetUser(ctx, regular.ID)
	require.NoError(t, err)
	require.False(t, unchanged.IsCelebrity)
}
