package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"pickmypit/internal/models"
	"pickmypit/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var (
	titleAdjectives = []string{
		"Playful", "Friendly", "Adorable", "Healthy", "Vaccinated", "Trained",
		"Gentle", "Energetic", "Loyal", "Cuddly", "Well-behaved", "Purebred",
	}

	ageUnits = []string{models.AgeUnitWeeks, models.AgeUnitMonths, models.AgeUnitYears}

	// status spread weighted toward live listings
	statusSpread = []string{
		models.PostStatusAvailable, models.PostStatusAvailable, models.PostStatusAvailable,
		models.PostStatusAvailable, models.PostStatusPending, models.PostStatusSold,
		models.PostStatusAdopted, models.PostStatusRejected,
	}

	nigerianCities = []struct{ City, State string }{
		{"Lagos", "Lagos"}, {"Ikeja", "Lagos"}, {"Abuja", "FCT"},
		{"Port Harcourt", "Rivers"}, {"Ibadan", "Oyo"}, {"Kano", "Kano"},
		{"Enugu", "Enugu"}, {"Benin City", "Edo"}, {"Jos", "Plateau"},
	}
)

// CreateUser persists a user with a known password ("password123").
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     strings.ToLower(gofakeit.Email()),
		Password:  string(hash),
		Role:      models.RoleUser,
		Status:    models.UserStatusActive,
		Picture:   fmt.Sprintf("https://i.pravatar.cc/300?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAddress persists an address for the given user.
func (f *Factory) CreateAddress(user *models.User, isDefault bool) (*models.Address, error) {
	loc := nigerianCities[f.r.Intn(len(nigerianCities))]
	lat := 4.0 + f.r.Float64()*10.0
	lng := 3.0 + f.r.Float64()*11.0
	addr := &models.Address{
		UserID:     user.ID,
		Street:     fmt.Sprintf("%d %s Street", 1+f.r.Intn(120), gofakeit.LastName()),
		City:       loc.City,
		State:      loc.State,
		PostalCode: fmt.Sprintf("%06d", 100001+f.r.Intn(800000)),
		Country:    "Nigeria",
		Latitude:   &lat,
		Longitude:  &lng,
		IsDefault:  isDefault,
	}
	if err := f.db.Create(addr).Error; err != nil {
		return nil, err
	}
	return addr, nil
}

// BuildPost constructs a listing without persisting it. Useful for batching.
func (f *Factory) BuildPost(owner *models.User, species *models.Species, breed *models.Breed, overrides ...func(*models.Post)) *models.Post {
	adjective := titleAdjectives[f.r.Intn(len(titleAdjectives))]
	title := fmt.Sprintf("%s %s %s", adjective, breed.Name, strings.TrimSuffix(species.DisplayName, "s"))

	post := &models.Post{
		Title:       title,
		Slug:        fmt.Sprintf("%s-%06d", validation.Slugify(title), f.r.Intn(1000000)),
		Description: gofakeit.Paragraph(1, 3, 8, " "),
		Images: []string{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
			fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		},
		Type:        models.PostTypeFree,
		Amount:      decimal.Zero,
		Species:     species.DisplayName,
		SpeciesSlug: species.Name,
		BreedSlug:   validation.Slugify(breed.Name),
		AgeValue:    1 + f.r.Intn(12),
		AgeUnit:     ageUnits[f.r.Intn(len(ageUnits))],
		Status:      statusSpread[f.r.Intn(len(statusSpread))],
		OwnerID:     owner.ID,
	}

	if f.r.Intn(2) == 0 {
		post.Type = models.PostTypePaid
		post.Amount = decimal.NewFromInt(int64(5000 + f.r.Intn(200)*500))
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.r.Intn(90)
	hoursBack := f.r.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists posts in chunks to keep the insert count low.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.CreateInBatches(posts, 100).Error
}
