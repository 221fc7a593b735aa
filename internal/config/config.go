package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DSN       string
	AppPort   string
	PublicURL string
}

func Load() Config {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	} else {
		log.Println("✅ .env file loaded successfully!")
	}

	cfg := Config{
		DSN:       os.Getenv("MYSQL_DSN"),
		AppPort:   os.Getenv("APP_PORT"),
		PublicURL: os.Getenv("PUBLIC_URL"),
	}

	if cfg.DSN == "" {
		log.Fatal("❌ MYSQL_DSN not set in environment")
	}
	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}
	if cfg.PublicURL == "" {
		// Base URL embedded in the QR codes the phones scan.
		cfg.PublicURL = "http://localhost:" + cfg.AppPort
	}

	return cfg
}
