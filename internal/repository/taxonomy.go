package repository

import (
	"context"
	"errors"

	"pickmypit/internal/cache"
	"pickmypit/internal/models"

	"gorm.io/gorm"
)

// SpeciesRepository defines persistence operations for the species taxonomy.
type SpeciesRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Species, error)
	GetByID(ctx context.Context, id uint) (*models.Species, error)
	GetByName(ctx context.Context, name string) (*models.Species, error)
	Create(ctx context.Context, species *models.Species) error
	Update(ctx context.Context, species *models.Species) error
	Delete(ctx context.Context, id uint) error
	IncrementPopularity(ctx context.Context, name string) error
}

// BreedRepository defines persistence operations for breeds within a species.
type BreedRepository interface {
	ListBySpecies(ctx context.Context, speciesName string, activeOnly bool) ([]models.Breed, error)
	ListBySpeciesID(ctx context.Context, speciesID uint) ([]models.Breed, error)
	GetByID(ctx context.Context, id uint) (*models.Breed, error)
	GetByName(ctx context.Context, speciesName, name string) (*models.Breed, error)
	Create(ctx context.Context, breed *models.Breed) error
	Update(ctx context.Context, breed *models.Breed) error
	Delete(ctx context.Context, id uint) error
}

type speciesRepository struct {
	db *gorm.DB
}

// NewSpeciesRepository returns a new SpeciesRepository implementation.
func NewSpeciesRepository(db *gorm.DB) SpeciesRepository {
	return &speciesRepository{db: db}
}

func (r *speciesRepository) List(ctx context.Context, activeOnly bool) ([]models.Species, error) {
	var species []models.Species

	load := func() error {
		q := r.db.WithContext(ctx).Order("popularity DESC, name ASC")
		if activeOnly {
			q = q.Where("active = ?", true)
		}
		if err := q.Find(&species).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	// Only the public active listing is cached; admin views read through.
	if activeOnly {
		if err := cache.Aside(ctx, cache.SpeciesListKey(), &species, cache.TaxonomyTTL, load); err != nil {
			return nil, err
		}
		return species, nil
	}
	if err := load(); err != nil {
		return nil, err
	}
	return species, nil
}

func (r *speciesRepository) GetByID(ctx context.Context, id uint) (*models.Species, error) {
	var species models.Species
	err := r.db.WithContext(ctx).
		Preload("Breeds").
		First(&species, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Species", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &species, nil
}

func (r *speciesRepository) GetByName(ctx context.Context, name string) (*models.Species, error) {
	var species models.Species
	err := r.db.WithContext(ctx).
		Preload("Breeds").
		Where("name = ?", name).
		First(&species).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Species", name)
		}
		return nil, models.NewInternalError(err)
	}
	return &species, nil
}

func (r *speciesRepository) Create(ctx context.Context, species *models.Species) error {
	if err := r.db.WithContext(ctx).Create(species).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Species already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateTaxonomy(ctx, species.Name)
	return nil
}

func (r *speciesRepository) Update(ctx context.Context, species *models.Species) error {
	if err := r.db.WithContext(ctx).Save(species).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTaxonomy(ctx, species.Name)
	return nil
}

func (r *speciesRepository) Delete(ctx context.Context, id uint) error {
	var breedCount int64
	err := r.db.WithContext(ctx).
		Model(&models.Breed{}).
		Where("species_id = ?", id).
		Count(&breedCount).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	if breedCount > 0 {
		return models.NewConflictError("Species still has breeds; delete them first")
	}

	res := r.db.WithContext(ctx).Delete(&models.Species{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Species", id)
	}
	cache.Invalidate(ctx, cache.SpeciesListKey())
	return nil
}

// IncrementPopularity bumps the ranking counter used to order browse menus.
func (r *speciesRepository) IncrementPopularity(ctx context.Context, name string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Species{}).
		Where("name = ?", name).
		Update("popularity", gorm.Expr("popularity + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

type breedRepository struct {
	db *gorm.DB
}

// NewBreedRepository returns a new BreedRepository implementation.
func NewBreedRepository(db *gorm.DB) BreedRepository {
	return &breedRepository{db: db}
}

func (r *breedRepository) ListBySpecies(ctx context.Context, speciesName string, activeOnly bool) ([]models.Breed, error) {
	var breeds []models.Breed

	load := func() error {
		q := r.db.WithContext(ctx).
			Where("species_name = ?", speciesName).
			Order("popularity DESC, name ASC")
		if activeOnly {
			q = q.Where("active = ?", true)
		}
		if err := q.Find(&breeds).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	if activeOnly {
		if err := cache.Aside(ctx, cache.BreedsKey(speciesName), &breeds, cache.TaxonomyTTL, load); err != nil {
			return nil, err
		}
		return breeds, nil
	}
	if err := load(); err != nil {
		return nil, err
	}
	return breeds, nil
}

func (r *breedRepository) ListBySpeciesID(ctx context.Context, speciesID uint) ([]models.Breed, error) {
	var breeds []models.Breed
	err := r.db.WithContext(ctx).
		Where("species_id = ?", speciesID).
		Order("popularity DESC, name ASC").
		Find(&breeds).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return breeds, nil
}

func (r *breedRepository) GetByID(ctx context.Context, id uint) (*models.Breed, error) {
	var breed models.Breed
	err := r.db.WithContext(ctx).First(&breed, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Breed", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &breed, nil
}

func (r *breedRepository) GetByName(ctx context.Context, speciesName, name string) (*models.Breed, error) {
	var breed models.Breed
	err := r.db.WithContext(ctx).
		Where("species_name = ? AND name = ?", speciesName, name).
		First(&breed).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Breed", name)
		}
		return nil, models.NewInternalError(err)
	}
	return &breed, nil
}

func (r *breedRepository) Create(ctx context.Context, breed *models.Breed) error {
	if err := r.db.WithContext(ctx).Create(breed).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Breed already exists for this species")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateTaxonomy(ctx, breed.SpeciesName)
	return nil
}

func (r *breedRepository) Update(ctx context.Context, breed *models.Breed) error {
	if err := r.db.WithContext(ctx).Save(breed).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTaxonomy(ctx, breed.SpeciesName)
	return nil
}

func (r *breedRepository) Delete(ctx context.Context, id uint) error {
	var breed models.Breed
	if err := r.db.WithContext(ctx).First(&breed, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Breed", id)
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&breed).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTaxonomy(ctx, breed.SpeciesName)
	return nil
}
