package main

import (
	"log"
	"os"

	"ai-imagestudio-be/internal/model"
	"ai-imagestudio-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Credit Packs...")

	// Prices in whole rupiah. Codes are stable identifiers the frontend keys on.
	packs := []model.CreditPack{
		{Code: "starter", Name: "Starter Pack", Credits: 50, Price: 25000, IsActive: true, SortOrder: 1},
		{Code: "creator", Name: "Creator Pack", Credits: 200, Price: 85000, IsActive: true, SortOrder: 2},
		{Code: "studio", Name: "Studio Pack", Credits: 500, Price: 180000, IsActive: true, SortOrder: 3},
	}

	for _, p := range packs {
		// Check if pack with this code already exists
		var existing model.CreditPack
		if err := db.Where("code = ?", p.Code).First(&existing).Error; err == nil {
			log.Printf("Pack '%s' already exists, skipping...", p.Code)
			continue
		}

		if err := db.Create(&p).Error; err != nil {
			log.Printf("Error creating pack '%s': %v", p.Code, err)
		} else {
			log.Printf("Created pack: %s (%d credits, Rp %d)", p.Name, p.Credits, p.Price)
		}
	}

	log.Println("Pack seeding completed!")

	seedAdminUser(db)

	log.Println("Seeding Notification Types...")
	SeedNotificationTypes(db)
}

// seedAdminUser creates the initial admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set. Safe to re-run; an existing row is left untouched.
func seedAdminUser(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("Info: ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var existing model.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("Admin '%s' already exists, skipping...", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}
	hashStr := string(hash)

	admin := model.User{
		Email:         email,
		PasswordHash:  &hashStr,
		FullName:      "Administrator",
		Role:          "admin",
		Status:        "active",
		EmailVerified: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Error creating admin user: %v", err)
		return
	}
	log.Printf("Created admin user: %s", email)
}
