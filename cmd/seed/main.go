package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/ecaldwell/cipher/internal/config"
	"github.com/ecaldwell/cipher/internal/decoy"
	"github.com/ecaldwell/cipher/internal/docstore"
	"github.com/ecaldwell/cipher/internal/logger"
)

// Seeds the decoy/demo dataset into the document store, for demos and for
// pre-populating a decoy account.
func main() {
	_ = godotenv.Load()

	log := logger.New()

	uid := flag.String("uid", "", "account id to seed")
	flag.Parse()

	if *uid == "" {
		log.Fatal().Msg("Error: --uid is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Firebase.ProjectID == "" {
		log.Fatal().Msg("FIREBASE_PROJECT_ID is required to seed the data store")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := docstore.NewFirestoreStore(ctx, cfg.Firebase.ProjectID, cfg.Firestore.Collection)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create data store")
	}
	defer store.Close()

	log.Info().Str("uid", *uid).Msg("Seeding demo dataset")

	if err := decoy.Seed(ctx, store, *uid); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	fmt.Println("Seeding completed successfully.")
}
