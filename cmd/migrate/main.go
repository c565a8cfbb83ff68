package main

import (
	"log"
	"os"

	"ai-imagestudio-be/internal/model"
	"ai-imagestudio-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions & Enums (Things GORM AutoMigrate doesn't do perfectly)
	log.Println("Step 1: Setting up Extensions and Enums...")

	setupSQL := []string{
		// Extensions
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,

		// Enums (Idempotent creation)
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'ai_credit_transaction_type') THEN CREATE TYPE ai_credit_transaction_type AS ENUM ('grant', 'spend', 'refund', 'adjustment'); END IF; END $$;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate for 13 Tables...")

	models := []interface{}{
		&model.User{},
		&model.PasswordResetToken{},
		&model.UserProvider{},
		&model.EmailVerificationToken{},
		&model.UserRefreshToken{},
		&model.CreditBalance{},
		&model.CreditTransaction{},
		&model.CreditPack{},
		&model.CreditOrder{},
		&model.GenerationHistory{},
		&model.EditHistory{},
		&model.NotificationType{},
		&model.Notification{},
	}

	// Migrate strictly
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Indexes & Views
	log.Println("Step 3: Creating Indexes and Views...")

	postMigrationSQL := []string{
		// ANN index for prompt similarity search. AutoMigrate creates the
		// column but not the hnsw index.
		`CREATE INDEX IF NOT EXISTS idx_generation_histories_prompt_embedding
		 ON generation_histories USING hnsw (prompt_embedding vector_cosine_ops);`,

		// View: user_order_history
		`CREATE OR REPLACE VIEW user_order_history AS
		 SELECT co.user_id, u.full_name, cp.name AS pack_name, co.amount, co.credits, co.status, co.order_id, co.created_at AS order_date
		 FROM credit_orders co
		 JOIN users u ON co.user_id = u.id
		 JOIN credit_packs cp ON co.pack_id = cp.id
		 ORDER BY co.created_at DESC;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
