package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pickmypit/internal/integrations"
	"pickmypit/internal/models"
	"pickmypit/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB, google integrations.GoogleVerifier) *UserService {
	return NewUserService(repository.NewUserRepository(db), google)
}

func registerInput() RegisterInput {
	return RegisterInput{
		FirstName: "Anita",
		LastName:  "Desai",
		Email:     fmt.Sprintf("anita-%d@example.com", time.Now().UnixNano()),
		Password:  "sekret1",
		Gender:    "female",
	}
}

func TestRegister_CreatesActiveUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db, nil)
	ctx := context.Background()

	in := registerInput()
	user, err := svc.Register(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEmpty(t, user.ReferralCode)
	assert.NotEqual(t, in.Password, user.Password)

	// Registered credentials round-trip through login.
	logged, err := svc.Login(ctx, in.Email, in.Password)
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegister_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db, nil)
	ctx := context.Background()

	in := registerInput()
	in.FirstName = "Al"
	in.Email = "not-an-email"
	in.Password = "short"
	_, err := svc.Register(ctx, in)
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Fields, "firstname")
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db, nil)
	ctx := context.Background()

	in := registerInput()
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	assert.Equal(t, "CONFLICT", appErrCode(t, err))
}

func TestRegister_ReferralBonus(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db, nil)
	ctx := context.Background()

	referrer, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	in := registerInput()
	in.ReferralCode = referrer.ReferralCode
	referred, err := svc.Register(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, repository.ReferralBonusNewUser, referred.Coins)
	require.NotNil(t, referred.ReferredByID)
	assert.Equal(t, referrer.ID, *referred.ReferredByID)

	var got models.User
	require.NoError(t, db.First(&got, referrer.ID).Error)
	assert.Equal(t, repository.ReferralBonusReferrer, got.Coins)
}

func TestRegister_InvalidReferralCodeIgnored(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db, nil)
	ctx := context.Background()

	in := registerInput()
	in.ReferralCode = "NOSUCHCODE"
	user, err := svc.Register(ctx, in)
	require.NoError(t, err)
	assert.Zero(t, user.Coins)
	assert.Nil(t, user.ReferredByID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db, nil)
	ctx := context.Background()

	in := registerInput()
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, wrongPw := svc.Login(ctx, in.Email, "wrong-password")
	_, noUser := svc.Login(ctx, "ghost@example.com", "whatever")

	// Identical message either way; no account probing.
	assert.Equal(t, wrongPw.Error(), noUser.Error())
	assert.Equal(t, "UNAUTHORIZED", appErrCode(t, wrongPw))
}

func TestLogin_BlockedUserRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db, nil)
	ctx := context.Background()

	in := registerInput()
	user, err := svc.Register(ctx, in)
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("status", models.UserStatusBlocked).Error)

	_, err = svc.Login(ctx, in.Email, in.Password)
	assert.Equal(t, "FORBIDDEN", appErrCode(t, err))
}

func TestGoogleAuth_CreatesNewUser(t *testing.T) {
	db := setupTestDB(t)
	google := &fakeGoogle{user: &integrations.GoogleUser{
		Email:      "Ravi.Kumar@example.com",
		GivenName:  "Ravi",
		FamilyName: "Kumar",
		Picture:    "https://lh3.example.com/ravi.jpg",
	}}
	svc := newUserService(db, google)
	ctx := context.Background()

	user, created, err := svc.GoogleAuth(ctx, "token", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ravi.kumar@example.com", user.Email)
	assert.Equal(t, "Ravi", user.FirstName)
	assert.Empty(t, user.Password)

	again, created, err := svc.GoogleAuth(ctx, "token", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
}

func TestGoogleAuth_LateReferralAttribution(t *testing.T) {
	db := setupTestDB(t)
	google := &fakeGoogle{user: &integrations.GoogleUser{
		Email: "late@example.com", GivenName: "Late", FamilyName: "Joiner",
	}}
	svc := newUserService(db, google)
	ctx := context.Background()

	referrer, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	first, _, err := svc.GoogleAuth(ctx, "token", "")
	require.NoError(t, err)
	require.Nil(t, first.ReferredByID)

	second, created, err := svc.GoogleAuth(ctx, "token", referrer.ReferralCode)
	require.NoError(t, err)
	assert.False(t, created)
	require.NotNil(t, second.ReferredByID)
	assert.Equal(t, referrer.ID, *second.ReferredByID)
	assert.Equal(t, repository.ReferralBonusNewUser, second.Coins)

	var got models.User
	require.NoError(t, db.First(&got, referrer.ID).Error)
	assert.Equal(t, repository.ReferralBonusReferrer, got.Coins)
}

func TestDeleteUser_SelfOrAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db, nil)
	ctx := context.Background()

	victim, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	err = svc.DeleteUser(ctx, victim.ID, victim.ID+1, models.RoleUser)
	assert.Equal(t, "FORBIDDEN", appErrCode(t, err))

	require.NoError(t, svc.DeleteUser(ctx, victim.ID, victim.ID, models.RoleUser))
}
