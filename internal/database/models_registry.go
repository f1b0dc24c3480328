package database

import "pickmypit/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Admin{},
		&models.Address{},
		&models.Species{},
		&models.Breed{},
		&models.Post{},
		&models.Blog{},
	}
}
