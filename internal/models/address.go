package models

import (
	"time"
)

// Address is a physical location owned by a user. At most one address per user
// carries IsDefault=true; the repository enforces this on every write.
type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	Street     string    `gorm:"not null" json:"street"`
	City       string    `gorm:"not null" json:"city"`
	State      string    `gorm:"not null" json:"state"`
	PostalCode string    `gorm:"not null" json:"postalCode"`
	Country    string    `gorm:"not null" json:"country"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	Landmark   string    `json:"landmark,omitempty"`
	IsDefault  bool      `gorm:"not null;default:false;index" json:"isDefault"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasCoordinates reports whether the address is geo-locatable.
func (a *Address) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}
