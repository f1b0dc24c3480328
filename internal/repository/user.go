package repository

import (
	"context"
	"errors"
	"time"

	"pickmypit/internal/cache"
	"pickmypit/internal/models"
	"pickmypit/internal/observability"

	"gorm.io/gorm"
)

// ReferralBonusReferrer and ReferralBonusNewUser are the coin amounts granted
// when a registration carries a valid referral code.
const (
	ReferralBonusReferrer = 50
	ReferralBonusNewUser  = 25
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByReferralCode(ctx context.Context, code string) (*models.User, error)
	GetStatus(ctx context.Context, id uint) (string, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	GrantReferralBonus(ctx context.Context, referrerID uint) error
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, days int) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no account exists so callers can branch
// on registration versus login without unwrapping a not-found error.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetStatus is the lightweight lookup used by the auth middleware on every
// authenticated request.
func (r *userRepository) GetStatus(ctx context.Context, id uint) (string, error) {
	var status string
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Pluck("status", &status).Error
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if status == "" {
		return "", models.NewNotFoundError("User", id)
	}
	return status, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("An account with this email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("An account with this email already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

// GrantReferralBonus atomically credits the referrer. The increment runs in
// SQL so concurrent registrations with the same code cannot lose updates.
func (r *userRepository) GrantReferralBonus(ctx context.Context, referrerID uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", referrerID).
		Update("coins", gorm.Expr("coins + ?", ReferralBonusReferrer))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", referrerID)
	}
	observability.ReferralBonusesGranted.Inc()
	cache.InvalidateUser(ctx, referrerID)
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *userRepository) CountCreatedSince(ctx context.Context, days int) (int64, error) {
	var count int64
	cutoff := time.Now().AddDate(0, 0, -days)
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("created_at >= ?", cutoff).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
