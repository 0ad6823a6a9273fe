// Command seed loads the content catalog into Supabase. It reads the
// same environment as the server and inserts library items from a JSON
// file, skipping titles that already exist.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/neomind180-byte/neomind180-sub000/internal/config"
	"github.com/neomind180-byte/neomind180-sub000/internal/database"
	"github.com/neomind180-byte/neomind180-sub000/internal/logging"
	librarysupabase "github.com/neomind180-byte/neomind180-sub000/services/library/supabase"
)

func main() {
	var (
		envFile     = flag.String("env", ".env", "Path to the environment file")
		catalogFile = flag.String("catalog", "./config/library.json", "Path to the library catalog JSON")
		dryRun      = flag.Bool("dry-run", false, "Print the rows without inserting")
	)
	flag.Parse()

	_ = godotenv.Load(*envFile)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logging.Setup(cfg.Log.Level, "console")

	data, err := os.ReadFile(filepath.Clean(*catalogFile))
	if err != nil {
		log.Fatal().Err(err).Str("path", *catalogFile).Msg("read catalog")
	}
	var items []librarysupabase.LibraryItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Fatal().Err(err).Msg("parse catalog")
	}
	if len(items) == 0 {
		log.Fatal().Str("path", *catalogFile).Msg("catalog is empty")
	}

	if *dryRun {
		for _, it := range items {
			log.Info().Str("title", it.Title).Str("type", it.Type).Int("min_tier", it.MinTier).Msg("would insert")
		}
		return
	}

	client, err := database.NewClient(database.Config{
		URL:        cfg.Supabase.URL,
		AnonKey:    cfg.Supabase.AnonKey,
		ServiceKey: cfg.Supabase.ServiceKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("supabase client")
	}
	repo := database.NewRepository(client)

	ctx := context.Background()
	inserted, skipped := 0, 0
	for _, it := range items {
		exists, err := titleExists(ctx, repo, it.Title)
		if err != nil {
			log.Fatal().Err(err).Str("title", it.Title).Msg("check existing")
		}
		if exists {
			skipped++
			continue
		}
		row := it
		row.ID = ""
		row.CreatedAt = time.Now().UTC()
		if err := repo.Insert(ctx, "library_items", &row, nil); err != nil {
			log.Fatal().Err(err).Str("title", it.Title).Msg("insert")
		}
		inserted++
	}

	log.Info().Int("inserted", inserted).Int("skipped", skipped).Msg("catalog seeded")
}

func titleExists(ctx context.Context, repo *database.Repository, title string) (bool, error) {
	var rows []librarysupabase.LibraryItem
	query := "title=eq." + url.QueryEscape(title) + "&limit=1"
	if err := repo.Select(ctx, "library_items", query, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}
