package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"passkey-smart-wallet/internal/config"
	"passkey-smart-wallet/internal/ledgerstore"
	"passkey-smart-wallet/internal/registration"
)

func main() {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("         Running schema migrations")
	fmt.Println("═══════════════════════════════════════════════════════════════")

	if err := ledgerstore.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate ledger_entries: %v", err)
	}
	fmt.Println("✓ ledger_entries ready")

	if err := db.AutoMigrate(&registration.CredentialRecord{}, &registration.CeremonySession{}); err != nil {
		log.Fatalf("Failed to migrate credential tables: %v", err)
	}
	fmt.Println("✓ credential_records ready")
	fmt.Println("✓ ceremony_sessions ready")

	fmt.Println("\nDatabase is ready for the passkey smart wallet service!")
}
