// Package config loads and validates the ambient settings this module
// needs once it steps outside the pure, host-agnostic contract core:
// database/cache DSNs, WebAuthn relying-party parameters, and the HTTP
// bind address.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every environment-derived setting the HTTP bridge needs.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string

	RPID     string
	RPName   string
	RPOrigin string

	FactoryAddress   string
	WalletBinaryHash string
}

// Load reads .env (if present) then environment variables, and fails
// loudly if a required setting is missing — mirroring the teacher's
// validateEnv() map-of-required-vars pattern.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	cfg := &Config{
		Port: getOr("PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getOr("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		RedisAddr:     getOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		RPID:     os.Getenv("RP_ID"),
		RPName:   getOr("RP_NAME", "Passkey Smart Wallet"),
		RPOrigin: os.Getenv("RP_ORIGIN"),

		FactoryAddress:   getOr("FACTORY_ADDRESS", "factory-default"),
		WalletBinaryHash: getOr("WALLET_BINARY_HASH", "passkey-smart-wallet-v1"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) validate() error {
	required := map[string]string{
		"DB_HOST":  c.DBHost,
		"DB_USER":  c.DBUser,
		"DB_NAME":  c.DBName,
		"RP_ID":    c.RPID,
		"RP_ORIGIN": c.RPOrigin,
	}

	var missing []string
	for key, value := range required {
		if value == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("config: missing required environment variables: %v", missing)
	}
	return nil
}

// PostgresDSN builds a libpq-style connection string for gorm.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}
