package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin account statuses.
const (
	AdminStatusActive   = "active"
	AdminStatusInactive = "inactive"
)

// Admin is a separate principal type with its own credential store.
type Admin struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FirstName   string         `gorm:"not null" json:"firstname"`
	LastName    string         `gorm:"not null" json:"lastname"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Role        string         `gorm:"not null;default:admin" json:"role"`
	Status      string         `gorm:"not null;default:active" json:"status"`
	Gender      string         `gorm:"default:other" json:"gender"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Active reports whether the admin account may authenticate.
func (a *Admin) Active() bool {
	return a.Status == AdminStatusActive
}
