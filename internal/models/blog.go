package models

import (
	"time"

	"gorm.io/gorm"
)

// Blog publication statuses.
const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

// Blog is editorial content authored by an admin. Content holds the raw editor
// document as JSON.
type Blog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Title      string         `gorm:"not null" json:"title"`
	Slug       string         `gorm:"uniqueIndex;not null" json:"slug"`
	Content    string         `gorm:"type:text" json:"content"`
	Category   string         `gorm:"index" json:"category"`
	CoverImage string         `json:"coverImage,omitempty"`
	Status     string         `gorm:"not null;default:draft;index" json:"status"`
	AuthorID   uint           `gorm:"not null;index" json:"author_id"`
	Author     *Admin         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
