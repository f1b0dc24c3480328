// Package seed provides database seeding utilities for development and
// testing. None of it runs in production boot paths except EnsureTaxonomy
// and the explicit dev admin bootstrap.
package seed

import (
	"fmt"
	"log"
	"strings"

	"pickmypit/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with demo data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: could not clear all existing data, continuing anyway")
		}
	}

	if err := EnsureTaxonomy(db); err != nil {
		return fmt.Errorf("failed to install taxonomy: %w", err)
	}

	var speciesList []models.Species
	if err := db.Preload("Breeds").Find(&speciesList).Error; err != nil {
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}

	factory := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if _, err := factory.CreateAddress(user, true); err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("✓ %d users created", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		owner := users[factory.r.Intn(len(users))]
		species := speciesList[factory.r.Intn(len(speciesList))]
		if len(species.Breeds) == 0 {
			continue
		}
		breed := species.Breeds[factory.r.Intn(len(species.Breeds))]
		posts = append(posts, factory.BuildPost(owner, &species, &breed))
	}
	if err := factory.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	log.Println("🌱 Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	// children before parents
	for _, model := range []interface{}{
		&models.Post{}, &models.Address{}, &models.Blog{},
		&models.Breed{}, &models.Species{}, &models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// BootstrapAdmin creates a superadmin account if none exists with the given
// email. Intended for development environments only; the caller gates it on
// explicit configuration.
func BootstrapAdmin(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return fmt.Errorf("bootstrap admin requires both email and password")
	}

	var count int64
	if err := db.Model(&models.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.Admin{
		FirstName: "Root",
		LastName:  "Admin",
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleSuperAdmin,
		Status:    models.AdminStatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Printf("✓ bootstrap admin %s created", email)
	return nil
}
