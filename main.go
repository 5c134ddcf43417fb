package main

import (
	"fmt"
	"os"
	"time"

	"carvalu/config"
	"carvalu/models"
	"carvalu/services"
	"carvalu/storage"
	"carvalu/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.NewLogger().Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	logger, err := utils.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		logger = utils.NewLogger()
		logger.Warn("Falling back to info logging: %v", err)
	}
	defer logger.Sync()

	logger.Info("=== Car listing preprocessing starting ===")
	logger.Info("Config: input %s | output %s | reference %s | concurrency %d",
		cfg.InputPath, cfg.OutputPath, cfg.ReferenceDate.Format(config.ReferenceDateLayout), cfg.MaxConcurrency)

	rules, err := cfg.Rules()
	if err != nil {
		logger.Error("Failed to load rules: %v", err)
		os.Exit(1)
	}

	var reader storage.TableReader = storage.NewCSVReader(cfg.MaxConcurrency, logger)
	table, err := reader.Read(cfg.InputPath)
	if err != nil {
		logger.Error("Failed to read input: %v", err)
		os.Exit(1)
	}

	res, err := services.NewPipeline(rules, logger).Preprocess(table, cfg.ReferenceDate)
	if err != nil {
		logger.Error("Preprocessing failed: %v", err)
		os.Exit(1)
	}
	if len(res.Listings) == 0 {
		logger.Warn("All listings were dropped during preprocessing")
	}

	csvWriter, err := storage.NewCSVWriter(cfg.OutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	if err := writeAndClose(csvWriter, res.Listings); err != nil {
		logger.Error("CSV write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Cleaned dataset saved to %s (%d listings)", cfg.OutputPath, len(res.Listings))

	if cfg.TrimsOutputPath != "" {
		entries := services.BuildTrimCatalogue(res.Listings)
		if err := storage.WriteTrimCatalogue(cfg.TrimsOutputPath, entries); err != nil {
			logger.Error("Trims catalogue write failed: %v", err)
		} else {
			logger.Info("Trims catalogue saved to %s (%d trims)", cfg.TrimsOutputPath, len(entries))
		}
	}

	insightInput := res.Listings
	if cfg.StorePostgres {
		insightInput = storePostgres(cfg, res, logger)
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(insightInput)
	insightSvc.Print(report, res.Stages)

	fmt.Printf("  Done. Run %s | Clean data → %s\n\n", res.RunID, cfg.OutputPath)
}

func writeAndClose(w storage.ListingWriter, listings []models.CleanListing) error {
	if err := w.Write(listings); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// storePostgres writes the run to PostgreSQL and returns the stored rows for the
// insight report. On any failure it falls back to the in-memory listings.
func storePostgres(cfg *config.Config, res *models.Result, logger *utils.Logger) []models.CleanListing {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Logger:      logger,
	}

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), res.RunID, retry)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Check the POSTGRES_* settings or unset STORE_POSTGRES")
		return res.Listings
	}
	defer pgWriter.Close()

	if err := pgWriter.Write(res.Listings); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		return res.Listings
	}
	logger.Info("Clean listings stored in PostgreSQL (table: listings, run %s)", res.RunID)

	stored, err := pgWriter.FetchRun()
	if err != nil {
		logger.Error("Failed to fetch listings from DB for insights: %v", err)
		return res.Listings
	}
	return stored
}
