// Command admin manages administrator accounts from the CLI.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"pickmypit/internal/config"
	"pickmypit/internal/database"
	"pickmypit/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin create <email> <password> [role]   - Create an admin (role: admin|superadmin)")
		fmt.Println("  go run ./cmd/admin list                               - List all admins")
		fmt.Println("  go run ./cmd/admin deactivate <email>                 - Deactivate an admin")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "create":
		if len(os.Args) < 4 {
			log.Fatal("usage: create <email> <password> [role]")
		}
		role := models.RoleAdmin
		if len(os.Args) > 4 {
			role = os.Args[4]
		}
		if role != models.RoleAdmin && role != models.RoleSuperAdmin {
			log.Fatalf("unknown role %q", role)
		}
		createAdmin(db, os.Args[2], os.Args[3], role)

	case "list":
		listAdmins(db)

	case "deactivate":
		if len(os.Args) < 3 {
			log.Fatal("usage: deactivate <email>")
		}
		deactivateAdmin(db, os.Args[2])

	default:
		log.Fatalf("unknown command %q", os.Args[1])
	}
}

func createAdmin(db *gorm.DB, email, password, role string) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	admin := models.Admin{
		FirstName: "Admin",
		LastName:  "User",
		Email:     email,
		Password:  string(hash),
		Role:      role,
		Status:    models.AdminStatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	fmt.Printf("✓ admin %s created with role %s (id %d)\n", email, role, admin.ID)
}

func listAdmins(db *gorm.DB) {
	var admins []models.Admin
	if err := db.Order("id").Find(&admins).Error; err != nil {
		log.Fatalf("Failed to list admins: %v", err)
	}
	for _, a := range admins {
		fmt.Printf("%4d  %-30s  %-10s  %s\n", a.ID, a.Email, a.Role, a.Status)
	}
}

func deactivateAdmin(db *gorm.DB, email string) {
	email = strings.ToLower(strings.TrimSpace(email))
	result := db.Model(&models.Admin{}).
		Where("email = ?", email).
		Update("status", models.AdminStatusInactive)
	if result.Error != nil {
		log.Fatalf("Failed to deactivate admin: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		log.Fatalf("No admin found with email %s", email)
	}
	fmt.Printf("✓ admin %s deactivated\n", email)
}
