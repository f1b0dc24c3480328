package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pickmypit/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOwner(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		FirstName: "Pat",
		Email:     fmt.Sprintf("owner-%d@example.com", time.Now().UnixNano()),
		Password:  "hashed",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, owner models.User, mutate func(*models.Post)) models.Post {
	t.Helper()
	post := models.Post{
		Title:       "Friendly pup",
		Slug:        fmt.Sprintf("friendly-pup-%d", time.Now().UnixNano()),
		Description: "A very friendly pup",
		Type:        models.PostTypeFree,
		SpeciesSlug: "dog",
		BreedSlug:   "labrador",
		Status:      models.PostStatusAvailable,
		OwnerID:     owner.ID,
	}
	if mutate != nil {
		mutate(&post)
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func TestPostRepository_Filter_StatusDefaults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	owner := seedOwner(t, db)
	ctx := context.Background()

	seedPost(t, db, owner, func(p *models.Post) { p.Status = models.PostStatusAvailable })
	seedPost(t, db, owner, func(p *models.Post) { p.Status = models.PostStatusPending })
	seedPost(t, db, owner, func(p *models.Post) { p.Status = models.PostStatusRejected })

	posts, total, err := repo.Filter(ctx, PostFilter{Status: models.PostStatusAvailable})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, models.PostStatusAvailable, posts[0].Status)

	// "all" disables the status predicate.
	_, total, err = repo.Filter(ctx, PostFilter{Status: StatusAll})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestPostRepository_Filter_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	owner := seedOwner(t, db)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		seedPost(t, db, owner, func(p *models.Post) {
			p.Slug = fmt.Sprintf("pup-%d", i)
		})
	}

	page1, total, err := repo.Filter(ctx, PostFilter{Status: models.PostStatusAvailable, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, page1, 10)

	page3, total, err := repo.Filter(ctx, PostFilter{Status: models.PostStatusAvailable, Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, page3, 5)

	empty, _, err := repo.Filter(ctx, PostFilter{Status: models.PostStatusAvailable, Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostRepository_Filter_PriceBounds(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	owner := seedOwner(t, db)
	ctx := context.Background()

	seedPost(t, db, owner, func(p *models.Post) {
		p.Type = models.PostTypePaid
		p.Amount = decimal.NewFromInt(100)
	})
	seedPost(t, db, owner, func(p *models.Post) {
		p.Type = models.PostTypePaid
		p.Amount = decimal.NewFromInt(500)
	})
	seedPost(t, db, owner, func(p *models.Post) {
		p.Type = models.PostTypeFree
	})

	min := decimal.NewFromInt(50)
	max := decimal.NewFromInt(200)
	posts, total, err := repo.Filter(ctx, PostFilter{
		Status:   models.PostStatusAvailable,
		Type:     models.PostTypePaid,
		MinPrice: &min,
		MaxPrice: &max,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].Amount.Equal(decimal.NewFromInt(100)))

	// Bounds are ignored for free-type queries.
	_, total, err = repo.Filter(ctx, PostFilter{
		Status:   models.PostStatusAvailable,
		Type:     models.PostTypeFree,
		MinPrice: &min,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestPostRepository_Filter_SearchAndSort(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	owner := seedOwner(t, db)
	ctx := context.Background()

	seedPost(t, db, owner, func(p *models.Post) {
		p.Title = "Alpha kitten"
		p.Type = models.PostTypePaid
		p.Amount = decimal.NewFromInt(300)
	})
	seedPost(t, db, owner, func(p *models.Post) {
		p.Title = "Zesty kitten"
		p.Type = models.PostTypePaid
		p.Amount = decimal.NewFromInt(100)
	})
	seedPost(t, db, owner, func(p *models.Post) {
		p.Title = "Quiet parrot"
	})

	posts, total, err := repo.Filter(ctx, PostFilter{Status: models.PostStatusAvailable, Search: "kitten"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, posts, 2)

	// search is case-insensitive in both directions
	_, total, err = repo.Filter(ctx, PostFilter{Status: models.PostStatusAvailable, Search: "KITTEN"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.Filter(ctx, PostFilter{Status: models.PostStatusAvailable, Search: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	posts, _, err = repo.Filter(ctx, PostFilter{Status: models.PostStatusAvailable, Sort: "price-low"})
	require.NoError(t, err)
	require.NotEmpty(t, posts)
	assert.True(t, posts[0].Amount.LessThanOrEqual(posts[len(posts)-1].Amount))

	posts, _, err = repo.Filter(ctx, PostFilter{Status: models.PostStatusAvailable, Sort: "title-az"})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "Alpha kitten", posts[0].Title)
}

func TestPostRepository_Filter_NearMe(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	owner := seedOwner(t, db)
	ctx := context.Background()

	// Bengaluru city center and a point roughly 7 km away; Mysuru is ~140 km.
	centerLat, centerLng := 12.9716, 77.5946
	nearLat, nearLng := 12.9352, 77.6245
	farLat, farLng := 12.2958, 76.6394

	near := models.Address{UserID: owner.ID, City: "Bengaluru", Latitude: &nearLat, Longitude: &nearLng}
	far := models.Address{UserID: owner.ID, City: "Mysuru", Latitude: &farLat, Longitude: &farLng}
	require.NoError(t, db.Create(&near).Error)
	require.NoError(t, db.Create(&far).Error)

	seedPost(t, db, owner, func(p *models.Post) { p.AddressID = &near.ID })
	seedPost(t, db, owner, func(p *models.Post) { p.AddressID = &far.ID })

	posts, total, err := repo.Filter(ctx, PostFilter{
		Status:    models.PostStatusAvailable,
		Latitude:  &centerLat,
		Longitude: &centerLng,
		RadiusKM:  25,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, near.ID, *posts[0].AddressID)

	// No address within radius short-circuits to an empty page.
	tinyRadius := 0.001
	posts, total, err = repo.Filter(ctx, PostFilter{
		Status:    models.PostStatusAvailable,
		Latitude:  &centerLat,
		Longitude: &centerLng,
		RadiusKM:  tinyRadius,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, posts)
}

func TestPostRepository_CreateSlugConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	owner := seedOwner(t, db)
	ctx := context.Background()

	first := models.Post{Title: "Pup", Slug: "pup-123456", OwnerID: owner.ID}
	require.NoError(t, repo.Create(ctx, &first))

	dup := models.Post{Title: "Pup", Slug: "pup-123456", OwnerID: owner.ID}
	err := repo.Create(ctx, &dup)
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestPostRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	owner := seedOwner(t, db)
	ctx := context.Background()

	post := seedPost(t, db, owner, func(p *models.Post) { p.Status = models.PostStatusPending })

	require.NoError(t, repo.UpdateStatus(ctx, post.ID, models.PostStatusAvailable, ""))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusAvailable, got.Status)

	err = repo.UpdateStatus(ctx, 9999, models.PostStatusAvailable, "")
	require.Error(t, err)
}

func TestPostRepository_GetBySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	owner := seedOwner(t, db)
	ctx := context.Background()

	post := seedPost(t, db, owner, func(p *models.Post) {
		p.AgeValue = 3
		p.AgeUnit = models.AgeUnitMonths
	})

	got, err := repo.GetBySlug(ctx, post.Slug)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, "3 months old", got.FormattedAge)

	_, err = repo.GetBySlug(ctx, "missing-slug")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
