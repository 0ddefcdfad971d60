// Command vendorscout discovers, enriches, and ranks event vendors.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"google.golang.org/genai"

	configfile "github.com/eventry-labs/vendorscout/internal/adapters/driven/config/file"
	embeddinggemini "github.com/eventry-labs/vendorscout/internal/adapters/driven/embedding/gemini"
	llmgemini "github.com/eventry-labs/vendorscout/internal/adapters/driven/llm/gemini"
	placesgoogle "github.com/eventry-labs/vendorscout/internal/adapters/driven/places/google"
	"github.com/eventry-labs/vendorscout/internal/adapters/driven/storage/sqlite"
	"github.com/eventry-labs/vendorscout/internal/adapters/driving/cli"
	"github.com/eventry-labs/vendorscout/internal/core/services"
	"github.com/eventry-labs/vendorscout/internal/dispatch"
	"github.com/eventry-labs/vendorscout/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional; real deployments export the variables directly.
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := configfile.Load(os.Getenv("VENDORSCOUT_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if mapsKey == "" {
		return fmt.Errorf("GOOGLE_MAPS_API_KEY is not set")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("creating Gemini client: %w", err)
	}

	queryService := llmgemini.NewQueryService(genaiClient, cfg.GenerativeModel)

	embedService, err := embeddinggemini.NewEmbeddingService(genaiClient, embeddinggemini.Config{
		Model:      cfg.EmbeddingModel,
		Dimensions: cfg.Dimensions,
	})
	if err != nil {
		return fmt.Errorf("creating embedding service: %w", err)
	}

	placeService, err := placesgoogle.NewPlaceService(ctx, mapsKey)
	if err != nil {
		return fmt.Errorf("creating place service: %w", err)
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening vendor store: %w", err)
	}
	defer store.Close()

	queryDisp, err := dispatch.New(cfg.Queries.DispatcherConfig("queries"))
	if err != nil {
		return fmt.Errorf("queries dispatcher: %w", err)
	}
	searchDisp, err := dispatch.New(cfg.Search.DispatcherConfig("search"))
	if err != nil {
		return fmt.Errorf("search dispatcher: %w", err)
	}
	detailDisp, err := dispatch.New(cfg.Details.DispatcherConfig("details"))
	if err != nil {
		return fmt.Errorf("details dispatcher: %w", err)
	}
	embedDisp, err := dispatch.New(cfg.Embedding.DispatcherConfig("embedding"))
	if err != nil {
		return fmt.Errorf("embedding dispatcher: %w", err)
	}

	settings := cfg.Settings()
	backupDir := cfg.DataDir
	if backupDir == "" {
		backupDir = filepath.Dir(store.Path())
	}

	collector := services.NewCollector(
		queryService, placeService, embedService, store,
		queryDisp, searchDisp, detailDisp, embedDisp,
		settings, backupDir,
	)
	planner := services.NewPlanner(
		queryService, embedService, store,
		queryDisp, embedDisp,
		settings,
	)

	logger.Debug("vendorscout %s starting (store: %s)", version, store.Path())

	cli.SetServices(collector, planner)
	cli.SetVersion(version)
	return cli.Execute()
}
