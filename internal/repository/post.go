package repository

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"pickmypit/internal/cache"
	"pickmypit/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Filter defaults. Browse endpoints page with 10 items, the richer filter
// endpoint with 12.
const (
	DefaultPageSize       = 10
	DefaultFilterPageSize = 12
	MaxPageSize           = 100
)

// StatusAll disables the status predicate in a filter.
const StatusAll = "all"

// earthRadiusKM is the equatorial radius used for proximity math.
const earthRadiusKM = 6378.1

// PostFilter describes a listing query. Zero values mean "no constraint"
// except Status, which callers default to available for public browsing.
type PostFilter struct {
	Page    int
	Limit   int
	Status  string
	Species string
	Breed   string
	Type    string
	Search  string
	Sort    string
	OwnerID uint

	// Price bounds apply only to paid listings.
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal

	// Proximity search. RadiusKM is only honored when both coordinates are set.
	Latitude  *float64
	Longitude *float64
	RadiusKM  float64
}

// Normalize applies paging bounds and the default page size.
func (f *PostFilter) Normalize(defaultLimit int) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

func (f *PostFilter) offset() int {
	return (f.Page - 1) * f.Limit
}

// PostRepository defines persistence operations for listings.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Filter(ctx context.Context, f PostFilter) ([]models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateStatus(ctx context.Context, id uint, status, reason string) error
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountCreatedSince(ctx context.Context, days int) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A post with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Address").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(slug), &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Owner").
			Preload("Address").
			Where("slug = ?", slug).
			First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", slug)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Filter returns one page of listings matching f along with the total count
// across all pages.
func (r *postRepository) Filter(ctx context.Context, f PostFilter) ([]models.Post, int64, error) {
	f.Normalize(DefaultPageSize)

	q := r.db.WithContext(ctx).Model(&models.Post{})

	if f.Status != "" && f.Status != StatusAll {
		q = q.Where("status = ?", f.Status)
	}
	if f.Species != "" {
		q = q.Where("species_slug = ?", f.Species)
	}
	if f.Breed != "" {
		q = q.Where("breed_slug = ?", f.Breed)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.OwnerID != 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.Search != "" {
		// LIKE is case-sensitive on postgres, so fold both sides
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	// Price bounds only make sense for paid listings.
	if f.Type == models.PostTypePaid {
		if f.MinPrice != nil {
			q = q.Where("amount >= ?", f.MinPrice)
		}
		if f.MaxPrice != nil {
			q = q.Where("amount <= ?", f.MaxPrice)
		}
	}

	if f.Latitude != nil && f.Longitude != nil && f.RadiusKM > 0 {
		ids, err := r.addressIDsWithin(ctx, *f.Latitude, *f.Longitude, f.RadiusKM)
		if err != nil {
			return nil, 0, err
		}
		if len(ids) == 0 {
			return []models.Post{}, 0, nil
		}
		q = q.Where("address_id IN ?", ids)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []models.Post
	err := applyPostSort(q, f.Sort).
		Preload("Owner").
		Preload("Address").
		Limit(f.Limit).
		Offset(f.offset()).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// applyPostSort appends the ORDER BY clause for the requested sort key.
// Unknown keys fall back to newest-first.
func applyPostSort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "oldest":
		return db.Order("created_at ASC")
	case "price-low":
		return db.Order("amount ASC, created_at DESC")
	case "price-high":
		return db.Order("amount DESC, created_at DESC")
	case "title-az":
		return db.Order("title ASC")
	case "title-za":
		return db.Order("title DESC")
	case "newest", "":
		fallthrough
	default:
		return db.Order("created_at DESC")
	}
}

// addressIDsWithin returns IDs of addresses whose coordinates fall within
// radiusKM of the origin. Distance uses the spherical law of cosines, computed
// here so results are identical across postgres and the sqlite test driver.
func (r *postRepository) addressIDsWithin(ctx context.Context, lat, lng, radiusKM float64) ([]uint, error) {
	type coord struct {
		ID        uint
		Latitude  float64
		Longitude float64
	}
	var coords []coord
	err := r.db.WithContext(ctx).
		Model(&models.Address{}).
		Select("id", "latitude", "longitude").
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Scan(&coords).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	ids := make([]uint, 0, len(coords))
	for _, c := range coords {
		cos := math.Sin(toRad(lat))*math.Sin(toRad(c.Latitude)) +
			math.Cos(toRad(lat))*math.Cos(toRad(c.Latitude))*math.Cos(toRad(c.Longitude)-toRad(lng))
		// Clamp against floating point drift before acos.
		cos = math.Max(-1, math.Min(1, cos))
		if earthRadiusKM*math.Acos(cos) <= radiusKM {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A post with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.Slug)
	return nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id uint, status, reason string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "status_reason": reason})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if status != "" && status != StatusAll {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) CountCreatedSince(ctx context.Context, days int) (int64, error) {
	var count int64
	cutoff := time.Now().AddDate(0, 0, -days)
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("created_at >= ?", cutoff).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
