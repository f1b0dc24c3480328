package repository

import (
	"context"
	"testing"

	"pickmypit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeciesRepository_ListActiveOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSpeciesRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Species{Name: "dog", DisplayName: "Dogs", Active: true, Popularity: 5}))
	require.NoError(t, repo.Create(ctx, &models.Species{Name: "cat", DisplayName: "Cats", Active: true, Popularity: 9}))
	retired := models.Species{Name: "dodo", DisplayName: "Dodos"}
	require.NoError(t, db.Create(&retired).Error)
	// Zero-value bools are skipped by GORM on insert; flip after create.
	require.NoError(t, db.Model(&retired).Update("active", false).Error)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	// Ordered by popularity.
	assert.Equal(t, "cat", active[0].Name)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSpeciesRepository_DuplicateName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSpeciesRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Species{Name: "dog"}))

	err := repo.Create(ctx, &models.Species{Name: "dog"})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestBreedRepository_UniquePerSpecies(t *testing.T) {
	db := setupTestDB(t)
	speciesRepo := NewSpeciesRepository(db)
	breedRepo := NewBreedRepository(db)
	ctx := context.Background()

	dog := models.Species{Name: "dog"}
	cat := models.Species{Name: "cat"}
	require.NoError(t, speciesRepo.Create(ctx, &dog))
	require.NoError(t, speciesRepo.Create(ctx, &cat))

	require.NoError(t, breedRepo.Create(ctx, &models.Breed{
		Name: "persian", SpeciesID: cat.ID, SpeciesName: "cat",
		Characteristics: []string{"calm", "long-haired"},
	}))

	// Same breed name under another species is allowed.
	require.NoError(t, breedRepo.Create(ctx, &models.Breed{
		Name: "persian", SpeciesID: dog.ID, SpeciesName: "dog",
	}))

	// Duplicate within the species is rejected.
	err := breedRepo.Create(ctx, &models.Breed{Name: "persian", SpeciesID: cat.ID, SpeciesName: "cat"})
	require.Error(t, err)

	breeds, err := breedRepo.ListBySpecies(ctx, "cat", true)
	require.NoError(t, err)
	require.Len(t, breeds, 1)
	assert.Equal(t, []string{"calm", "long-haired"}, breeds[0].Characteristics)
}

func TestSpeciesRepository_IncrementPopularity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSpeciesRepository(db)
	ctx := context.Background()

	dog := models.Species{Name: "dog", Popularity: 1}
	require.NoError(t, repo.Create(ctx, &dog))

	require.NoError(t, repo.IncrementPopularity(ctx, "dog"))

	got, err := repo.GetByName(ctx, "dog")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Popularity)
}

func TestSpeciesRepository_DeleteGuardedByBreeds(t *testing.T) {
	db := setupTestDB(t)
	speciesRepo := NewSpeciesRepository(db)
	breedRepo := NewBreedRepository(db)
	ctx := context.Background()

	dog := models.Species{Name: "dog"}
	require.NoError(t, speciesRepo.Create(ctx, &dog))
	beagle := models.Breed{Name: "beagle", SpeciesID: dog.ID, SpeciesName: "dog"}
	require.NoError(t, breedRepo.Create(ctx, &beagle))

	err := speciesRepo.Delete(ctx, dog.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", appErr.Code)

	require.NoError(t, breedRepo.Delete(ctx, beagle.ID))
	require.NoError(t, speciesRepo.Delete(ctx, dog.ID))
}
