package repository

import (
	"context"
	"errors"

	"pickmypit/internal/models"

	"gorm.io/gorm"
)

// AddressRepository defines persistence operations for user addresses.
type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	GetByID(ctx context.Context, id uint) (*models.Address, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Address, error)
	GetDefault(ctx context.Context, userID uint) (*models.Address, error)
	SetDefault(ctx context.Context, userID, addressID uint) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, userID, addressID uint) error
}

type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository returns a new AddressRepository implementation.
func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(ctx context.Context, address *models.Address) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// First address for a user becomes the default automatically.
		var count int64
		if err := tx.Model(&models.Address{}).Where("user_id = ?", address.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			address.IsDefault = true
		}
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ?", address.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *addressRepository) GetByID(ctx context.Context, id uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Address", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &address, nil
}

func (r *addressRepository) ListByUser(ctx context.Context, userID uint) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return addresses, nil
}

func (r *addressRepository) GetDefault(ctx context.Context, userID uint) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Default address for user", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &address, nil
}

// SetDefault marks exactly one address as the user's default. The single
// UPDATE flips every row for the user in one statement, so concurrent calls
// can never leave two defaults behind.
func (r *addressRepository) SetDefault(ctx context.Context, userID, addressID uint) error {
	var owned int64
	if err := r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Count(&owned).Error; err != nil {
		return models.NewInternalError(err)
	}
	if owned == 0 {
		return models.NewNotFoundError("Address", addressID)
	}

	err := r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("user_id = ?", userID).
		Update("is_default", gorm.Expr("(id = ?)", addressID)).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *addressRepository) Update(ctx context.Context, address *models.Address) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND id <> ?", address.UserID, address.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(address).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *addressRepository) Delete(ctx context.Context, userID, addressID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&models.Address{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Address", addressID)
	}
	return nil
}
