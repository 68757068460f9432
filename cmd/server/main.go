package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/go-webauthn/webauthn/webauthn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"passkey-smart-wallet/internal/config"
	"passkey-smart-wallet/internal/factorycontract"
	"passkey-smart-wallet/internal/httpapi"
	"passkey-smart-wallet/internal/ledger"
	"passkey-smart-wallet/internal/ledgerstore"
	"passkey-smart-wallet/internal/obslog"
	"passkey-smart-wallet/internal/registration"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	baseLog := obslog.New()

	log.Println("🔌 Connecting to database...")
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✓ Database connected successfully")

	log.Println("🔄 Running database migrations...")
	if err := ledgerstore.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to run ledger migrations: %v", err)
	}
	if err := db.AutoMigrate(&registration.CredentialRecord{}, &registration.CeremonySession{}); err != nil {
		log.Fatalf("❌ Failed to run credential migrations: %v", err)
	}
	log.Println("✓ Database migrations completed")

	log.Println("🧰 Connecting to Redis...")
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	log.Println("✓ Redis client configured")

	log.Println("🔐 Initializing WebAuthn...")
	wa, err := webauthn.New(&webauthn.Config{
		RPID:          cfg.RPID,
		RPDisplayName: cfg.RPName,
		RPOrigins:     []string{cfg.RPOrigin},
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize WebAuthn: %v", err)
	}
	log.Println("✓ WebAuthn initialized")

	persistentStore := ledgerstore.NewGormStore(db)
	temporaryStore := ledgerstore.NewRedisStore(redisClient)
	instanceStore := ledger.NewMemStore()
	led := ledger.New(instanceStore, persistentStore, temporaryStore)

	factory := factorycontract.New(cfg.FactoryAddress, led)

	log.Println("🏭 Initializing wallet factory...")
	if err := factory.Init(context.Background(), sha256.Sum256([]byte(cfg.WalletBinaryHash))); err != nil {
		log.Fatalf("❌ Failed to initialize factory: %v", err)
	}
	log.Println("✓ Factory initialized")

	ceremony := registration.New(wa, db, led, factory, obslog.Component(baseLog, "registration"))
	handler := httpapi.New(led, factory, ceremony, obslog.Component(baseLog, "httpapi"))
	router := httpapi.SetupRouter(handler, []string{cfg.RPOrigin})

	fmt.Printf(`
╔═══════════════════════════════════════╗
║   PASSKEY SMART WALLET v1.0            ║
║   Powered by Go + Gin + WebAuthn       ║
║                                        ║
║   🌐 Server: http://localhost:%-5s   ║
║   🔐 Passkeys: Enabled                  ║
║   🗄️  Database: Connected               ║
║   🧰 Redis: Connected                   ║
╚═══════════════════════════════════════╝
`, cfg.Port)

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
