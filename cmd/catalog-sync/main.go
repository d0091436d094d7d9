package main

import (
	"context"
	"log"
	"time"

	"watchmatch/internal/catalog"
	"watchmatch/pkg/database"
	"watchmatch/pkg/utils"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg := utils.LoadSyncConfig()
	if cfg.TMDBKey == "" {
		log.Fatal("WATCHMATCH_TMDB_KEY is required")
	}

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	src := catalog.NewTMDBSource(cfg.TMDBBase, cfg.TMDBKey, cfg.Pages)

	log.Printf("[sync] fetching from %s", src.Name())
	movies, err := src.FetchAll(ctx)
	if err != nil {
		log.Fatalf("fetch failed: %v", err)
	}
	log.Printf("[sync] fetched %d movies", len(movies))

	if err := catalog.SaveToDatabase(ctx, db, movies); err != nil {
		log.Fatalf("save failed: %v", err)
	}
	log.Println("[sync] catalog updated")
}
