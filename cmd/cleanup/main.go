package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"passkey-smart-wallet/internal/config"
)

// cleanup sweeps rows the ledger's own Get()-time lazy expiry would
// eventually catch anyway, so an operator doesn't have to wait for a
// namespace to be touched again to reclaim disk for long-dead admin
// signers and abandoned ceremony sessions. Grounded on the teacher's
// cmd/cleanup/main.go — same direct-SQL-by-table shape, retargeted
// from a full wipe to a TTL sweep.
func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found in current directory")
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("⚠️  No .env file found in parent directory either")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("🧹 Sweeping expired rows...")

	now := time.Now()

	result := db.Exec("DELETE FROM ledger_entries WHERE expires_at IS NOT NULL AND expires_at < ?", now)
	if result.Error != nil {
		log.Printf("⚠️  Error sweeping ledger_entries: %v", result.Error)
	} else {
		log.Printf("✓ Deleted %d expired ledger_entries rows", result.RowsAffected)
	}

	result = db.Exec("DELETE FROM ceremony_sessions WHERE expires_at < ?", now)
	if result.Error != nil {
		log.Printf("⚠️  Error sweeping ceremony_sessions: %v", result.Error)
	} else {
		log.Printf("✓ Deleted %d expired ceremony_sessions rows", result.RowsAffected)
	}

	fmt.Println("✅ Cleanup completed!")
}
