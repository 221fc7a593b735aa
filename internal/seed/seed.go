package seed

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"asistencia/internal/storage"
)

// FirstSetup writes the configuration defaults a fresh deployment needs. The
// signing secret is generated exactly once; every later boot reuses the
// stored value, since rotating it would strand all bound devices.
func FirstSetup(st storage.Store) error {
	ctx := context.Background()

	// -------------------------
	// 1) Ensure signing secret
	// -------------------------
	if _, err := st.GetConfig(ctx, "secret_key"); errors.Is(err, storage.ErrNotFound) {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generate secret key: %w", err)
		}
		if err := st.SetConfig(ctx, "secret_key", hex.EncodeToString(buf)); err != nil {
			return err
		}
		log.Println("✅ Generated new signing secret")
	} else if err != nil {
		return err
	}

	// -------------------------
	// 2) Ensure plain defaults
	// -------------------------
	defaults := map[string]string{
		"tolerancia_minutos": "15",
		"nombre_empresa":     "NEVOX FARMA",
	}
	for key, value := range defaults {
		if _, err := st.GetConfig(ctx, key); errors.Is(err, storage.ErrNotFound) {
			if err := st.SetConfig(ctx, key, value); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	log.Println("✅ Seed OK | config defaults ensured")
	return nil
}
