package main

import (
	"context"
	"fmt"
	"log"

	"asistencia/internal/attendance"
	"asistencia/internal/config"
	"asistencia/internal/db"
	"asistencia/internal/http"
	"asistencia/internal/seed"
	"asistencia/internal/storage/gormstore"
	"asistencia/internal/token"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DSN)
	db.AutoMigrate(gdb)

	store := gormstore.New(gdb)
	if err := seed.FirstSetup(store); err != nil {
		log.Fatalf("❌ First setup failed: %v", err)
	}

	// The signing secret must exist before any token operation; a missing
	// key after seeding is a fatal configuration error.
	secret, err := store.GetConfig(context.Background(), "secret_key")
	if err != nil {
		log.Fatalf("❌ Signing secret unavailable: %v", err)
	}

	codec := token.NewCodec([]byte(secret))
	svc := attendance.NewService(store, codec)

	r := httpserver.NewRouter(store, svc, codec, cfg)
	log.Printf("🚀 Server listening on :%s\n", cfg.AppPort)
	r.Run(fmt.Sprintf(":%s", cfg.AppPort))
}
