package service

import (
	"context"
	"testing"

	"pickmypit/internal/models"
	"pickmypit/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdminService(db *gorm.DB) *AdminService {
	return NewAdminService(
		repository.NewAdminRepository(db),
		repository.NewUserRepository(db),
		repository.NewPostRepository(db),
	)
}

func createAdminInput() CreateAdminInput {
	return CreateAdminInput{
		FirstName: "Root",
		LastName:  "Admin",
		Email:     "root@example.com",
		Password:  "sekret1",
		Role:      models.RoleSuperAdmin,
	}
}

func TestAdminLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, createAdminInput())
	require.NoError(t, err)
	require.Nil(t, admin.LastLoginAt)

	logged, err := svc.Login(ctx, "ROOT@example.com", "sekret1")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, logged.ID)
	assert.NotNil(t, logged.LastLoginAt)

	_, err = svc.Login(ctx, "root@example.com", "wrong")
	assert.Equal(t, "UNAUTHORIZED", appErrCode(t, err))

	_, err = svc.Login(ctx, "ghost@example.com", "sekret1")
	assert.Equal(t, "UNAUTHORIZED", appErrCode(t, err))
}

func TestAdminLogin_InactiveRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, createAdminInput())
	require.NoError(t, err)
	require.NoError(t, db.Model(admin).Update("status", models.AdminStatusInactive).Error)

	_, err = svc.Login(ctx, admin.Email, "sekret1")
	assert.Equal(t, "FORBIDDEN", appErrCode(t, err))
}

func TestCreateAdmin_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, createAdminInput())
	require.NoError(t, err)

	_, err = svc.CreateAdmin(ctx, createAdminInput())
	assert.Equal(t, "CONFLICT", appErrCode(t, err))
}

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, createAdminInput())
	require.NoError(t, err)

	owner := seedServiceOwner(t, db)
	for i, status := range []string{
		models.PostStatusPending, models.PostStatusAvailable, models.PostStatusAvailable, models.PostStatusSold,
	} {
		post := models.Post{
			Title:   "Listing",
			Slug:    newSlug("listing") + string(rune('a'+i)),
			Species: "Dog",
			Status:  status,
			OwnerID: owner.ID,
		}
		require.NoError(t, db.Create(&post).Error)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(4), stats.TotalPosts)
	assert.Equal(t, int64(1), stats.TotalAdmins)
	assert.Equal(t, int64(1), stats.PostsByStatus[models.PostStatusPending])
	assert.Equal(t, int64(2), stats.PostsByStatus[models.PostStatusAvailable])
	assert.Equal(t, int64(1), stats.PostsByStatus[models.PostStatusSold])
	assert.Zero(t, stats.PostsByStatus[models.PostStatusBanned])
	assert.Equal(t, int64(1), stats.NewUsers30d)
	assert.Equal(t, int64(4), stats.NewPosts30d)
}
