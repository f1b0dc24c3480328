package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// User account statuses.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBlocked  = "blocked"
)

const defaultUserPicture = "https://i.pinimg.com/564x/d8/2c/87/d82c87e21e84a3e7649d16c968105553.jpg"

// User represents an account holder. Password is empty for OAuth-only accounts.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FirstName    string         `gorm:"not null" json:"firstname"`
	LastName     string         `gorm:"not null" json:"lastname"`
	Email        string         `gorm:"unique;not null" json:"email"`
	Password     string         `json:"-"`
	Role         string         `gorm:"not null;default:user" json:"role"`
	Status       string         `gorm:"not null;default:active;index" json:"status"`
	Gender       string         `gorm:"default:other" json:"gender"`
	Picture      string         `json:"userpic"`
	Phone        string         `json:"phone,omitempty"`
	About        string         `json:"about,omitempty"`
	ReferralCode string         `gorm:"uniqueIndex" json:"referralCode,omitempty"`
	ReferredByID *uint          `gorm:"index" json:"referredBy,omitempty"`
	Coins        int            `gorm:"not null;default:0" json:"coins"`
	Addresses    []Address      `gorm:"foreignKey:UserID" json:"addresses,omitempty"`
	Posts        []Post         `gorm:"foreignKey:OwnerID" json:"posts,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate fills defaults GORM cannot express as column defaults.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Picture == "" {
		u.Picture = defaultUserPicture
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	if u.ReferralCode == "" {
		u.ReferralCode = NewReferralCode()
	}
	return nil
}

// NewReferralCode generates a short shareable code for referral links.
func NewReferralCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:8])
}

// IsAdmin reports whether the user holds an admin-tier role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// PublicCard is the reduced owner payload embedded in listings.
type PublicCard struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Picture   string `json:"userpic"`
}

// Card returns the public projection of the user.
func (u *User) Card() PublicCard {
	return PublicCard{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Picture:   u.Picture,
	}
}
