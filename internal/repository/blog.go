package repository

import (
	"context"
	"errors"

	"pickmypit/internal/cache"
	"pickmypit/internal/models"

	"gorm.io/gorm"
)

// BlogRepository defines persistence operations for blog articles.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id uint) (*models.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*models.Blog, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Blog, int64, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id uint) error
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository returns a new BlogRepository implementation.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A blog with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &blog, nil
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var blog models.Blog
	err := cache.Aside(ctx, cache.BlogKey(slug), &blog, cache.BlogTTL, func() error {
		if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&blog).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Blog", slug)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Blog, int64, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	q := r.db.WithContext(ctx).Model(&models.Blog{})
	if status != "" && status != StatusAll {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var blogs []models.Blog
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return blogs, total, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Save(blog).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A blog with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.BlogKey(blog.Slug))
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	var blog models.Blog
	if err := r.db.WithContext(ctx).First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Blog", id)
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&blog).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.BlogKey(blog.Slug))
	return nil
}
