package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Post statuses. A post enters the moderation queue as pending and becomes
// publicly visible only when available.
const (
	PostStatusPending   = "pending"
	PostStatusAvailable = "available"
	PostStatusSold      = "sold"
	PostStatusAdopted   = "adopted"
	PostStatusRejected  = "rejected"
	PostStatusBanned    = "banned"
)

// Post pricing types.
const (
	PostTypeFree = "free"
	PostTypePaid = "paid"
)

// Age units for listings.
const (
	AgeUnitDays   = "days"
	AgeUnitWeeks  = "weeks"
	AgeUnitMonths = "months"
	AgeUnitYears  = "years"
)

// ValidPostStatus reports whether s is a known post status.
func ValidPostStatus(s string) bool {
	switch s {
	case PostStatusPending, PostStatusAvailable, PostStatusSold,
		PostStatusAdopted, PostStatusRejected, PostStatusBanned:
		return true
	}
	return false
}

// ValidAgeUnit reports whether u is a known age unit.
func ValidAgeUnit(u string) bool {
	switch u {
	case AgeUnitDays, AgeUnitWeeks, AgeUnitMonths, AgeUnitYears:
		return true
	}
	return false
}

// Post represents a pet listing.
type Post struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Title        string          `gorm:"not null" json:"title"`
	Slug         string          `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string          `gorm:"type:text" json:"description"`
	Images       []string        `gorm:"serializer:json" json:"images"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);default:0;index" json:"amount"`
	Type         string          `gorm:"not null;default:free;index" json:"type"`
	Category     string          `gorm:"index" json:"category"`
	Species      string          `gorm:"index" json:"species"`
	SpeciesSlug  string          `gorm:"index" json:"speciesSlug"`
	BreedSlug    string          `gorm:"index" json:"breedSlug"`
	AgeValue     int             `json:"age_value,omitempty"`
	AgeUnit      string          `json:"age_unit,omitempty"`
	FormattedAge string          `gorm:"-" json:"formatted_age,omitempty"`
	Status       string          `gorm:"not null;default:pending;index" json:"status"`
	StatusReason string          `json:"status_reason,omitempty"`
	OwnerID      uint            `gorm:"not null;index" json:"owner_id"`
	Owner        User            `gorm:"foreignKey:OwnerID" json:"owner"`
	AddressID    *uint           `gorm:"index" json:"address_id,omitempty"`
	Address      *Address        `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// AfterFind computes the human-readable age string.
func (p *Post) AfterFind(tx *gorm.DB) error {
	p.FormattedAge = FormatAge(p.AgeValue, p.AgeUnit)
	return nil
}

// FormatAge renders "3 months old" style strings, singularizing the unit at 1.
func FormatAge(value int, unit string) string {
	if value <= 0 || unit == "" {
		return ""
	}
	unitStr := unit
	if value == 1 {
		unitStr = strings.TrimSuffix(unit, "s")
	}
	return fmt.Sprintf("%d %s old", value, unitStr)
}

// PubliclyVisible reports whether the post appears in default browse results.
func (p *Post) PubliclyVisible() bool {
	return p.Status == PostStatusAvailable
}
