package repository

import (
	"context"
	"testing"

	"pickmypit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := models.User{
		FirstName:    "Pat",
		Email:        "pat@example.com",
		Password:     "hashed",
		ReferralCode: "PAT123",
	}
	require.NoError(t, repo.Create(ctx, &user))
	require.NotZero(t, user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", got.Email)
	assert.Equal(t, models.RoleUser, got.Role)
	assert.Equal(t, models.UserStatusActive, got.Status)

	byEmail, err := repo.GetByEmail(ctx, "pat@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byCode, err := repo.GetByReferralCode(ctx, "PAT123")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, user.ID, byCode.ID)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := models.User{FirstName: "Pat", Email: "pat@example.com", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, &first))

	dup := models.User{FirstName: "Sam", Email: "pat@example.com", Password: "hashed"}
	err := repo.Create(ctx, &dup)
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestUserRepository_GrantReferralBonus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	referrer := models.User{FirstName: "Pat", Email: "pat@example.com", Coins: 10}
	require.NoError(t, repo.Create(ctx, &referrer))

	require.NoError(t, repo.GrantReferralBonus(ctx, referrer.ID))

	got, err := repo.GetByID(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, 10+ReferralBonusReferrer, got.Coins)

	err = repo.GrantReferralBonus(ctx, 9999)
	require.Error(t, err)
}

func TestUserRepository_GetStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := models.User{FirstName: "Pat", Email: "pat@example.com", Status: models.UserStatusBlocked}
	require.NoError(t, repo.Create(ctx, &user))

	status, err := repo.GetStatus(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusBlocked, status)

	_, err = repo.GetStatus(ctx, 9999)
	require.Error(t, err)
}
