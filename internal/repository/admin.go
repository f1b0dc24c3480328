package repository

import (
	"context"
	"errors"
	"time"

	"pickmypit/internal/models"

	"gorm.io/gorm"
)

// AdminRepository defines persistence operations for admin principals.
type AdminRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	Update(ctx context.Context, admin *models.Admin) error
	List(ctx context.Context, limit, offset int) ([]models.Admin, int64, error)
	Delete(ctx context.Context, id uint) error
	RecordLogin(ctx context.Context, id uint) error
	ValidateAdmin(ctx context.Context, id uint, email string) (string, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository returns a new AdminRepository implementation.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Admin", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &admin, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("An admin with this email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *adminRepository) Update(ctx context.Context, admin *models.Admin) error {
	if err := r.db.WithContext(ctx).Save(admin).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *adminRepository) List(ctx context.Context, limit, offset int) ([]models.Admin, int64, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Admin{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var admins []models.Admin
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&admins).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return admins, total, nil
}

func (r *adminRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Admin{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Admin", id)
	}
	return nil
}

func (r *adminRepository) RecordLogin(ctx context.Context, id uint) error {
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("id = ?", id).
		Update("last_login_at", now).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ValidateAdmin re-checks a token's admin claim against the admins table,
// falling back to a user account that carries an admin role. A live token
// alone is not enough once the principal has been removed or deactivated.
func (r *adminRepository) ValidateAdmin(ctx context.Context, id uint, email string) (string, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).First(&admin, id).Error
	if err == nil {
		if !admin.Active() {
			return "", models.NewForbiddenError("Admin account is inactive")
		}
		if email != "" && admin.Email != email {
			return "", models.NewForbiddenError("Admin token does not match account")
		}
		return admin.Role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", models.NewInternalError(err)
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.NewForbiddenError("Admin account not found")
		}
		return "", models.NewInternalError(err)
	}
	if !user.IsAdmin() || user.Status != models.UserStatusActive {
		return "", models.NewForbiddenError("Account does not have admin access")
	}
	return user.Role, nil
}
