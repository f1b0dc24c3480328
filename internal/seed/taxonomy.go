package seed

import (
	"errors"

	"pickmypit/internal/models"
	"pickmypit/internal/validation"

	"gorm.io/gorm"
)

// speciesPreset is the built-in taxonomy installed by EnsureTaxonomy.
var speciesPreset = map[string][]string{
	"dog":    {"Labrador", "German Shepherd", "Rottweiler", "Beagle", "Boerboel", "Caucasian Shepherd", "Lhasa Apso", "American Eskimo"},
	"cat":    {"Persian", "Siamese", "Maine Coon", "British Shorthair", "Bengal", "Sphynx"},
	"bird":   {"African Grey Parrot", "Cockatiel", "Lovebird", "Canary", "Budgerigar"},
	"rabbit": {"Dutch", "Lionhead", "Flemish Giant", "Mini Lop"},
	"fish":   {"Goldfish", "Betta", "Guppy", "Angelfish", "Oscar"},
}

// EnsureTaxonomy installs the built-in species and breeds, skipping any that
// already exist. Safe to run on every boot.
func EnsureTaxonomy(db *gorm.DB) error {
	for name, breeds := range speciesPreset {
		var species models.Species
		err := db.Where("name = ?", name).First(&species).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			species = models.Species{
				Name:        validation.Slugify(name),
				DisplayName: displayName(name),
				Active:      true,
			}
			if err := db.Create(&species).Error; err != nil {
				return err
			}
			// sqlite and gorm skip zero-value writes on default-true columns
			if err := db.Model(&species).Update("active", true).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		for _, breedName := range breeds {
			var count int64
			if err := db.Model(&models.Breed{}).
				Where("species_id = ? AND name = ?", species.ID, breedName).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			breed := models.Breed{
				Name:        breedName,
				SpeciesID:   species.ID,
				SpeciesName: species.Name,
				Active:      true,
			}
			if err := db.Create(&breed).Error; err != nil {
				return err
			}
			if err := db.Model(&breed).Update("active", true).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func displayName(species string) string {
	switch species {
	case "dog":
		return "Dogs"
	case "cat":
		return "Cats"
	case "bird":
		return "Birds"
	case "rabbit":
		return "Rabbits"
	case "fish":
		return "Fish"
	default:
		return species
	}
}
