package models

import (
	"time"

	"gorm.io/gorm"
)

// Species is a top-level taxonomy entry (dog, cat, ...). Name is stored
// lowercase and unique; DisplayName is the user-facing form.
type Species struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName string         `gorm:"not null" json:"displayName"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	Active      bool           `gorm:"not null;default:true;index" json:"active"`
	Popularity  int            `gorm:"not null;default:0;index" json:"popularity"`
	Breeds      []Breed        `gorm:"foreignKey:SpeciesID" json:"breeds,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Breed belongs to exactly one Species; unique per (species, name).
type Breed struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string         `gorm:"not null;uniqueIndex:idx_breed_species_name" json:"name"`
	SpeciesID       uint           `gorm:"not null;uniqueIndex:idx_breed_species_name;index" json:"speciesId"`
	Species         *Species       `gorm:"foreignKey:SpeciesID" json:"species,omitempty"`
	SpeciesName     string         `gorm:"not null" json:"speciesName"`
	Description     string         `json:"description"`
	Characteristics []string       `gorm:"serializer:json" json:"characteristics"`
	Active          bool           `gorm:"not null;default:true;index" json:"active"`
	Popularity      int            `gorm:"not null;default:0;index" json:"popularity"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
