package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/promopulse-backend/internal/datafiles"
	"github.com/angelmondragon/promopulse-backend/internal/generator"
	"github.com/angelmondragon/promopulse-backend/pkg/config"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "generator"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	out := flag.String("out", cfg.Data.RawDir, "directory for the generated CSV tables")
	seed := flag.Uint64("seed", cfg.Generator.Seed, "random seed")
	products := flag.Int("products", cfg.Generator.Products, "number of products")
	orders := flag.Int("orders", cfg.Generator.Orders, "number of sales rows")
	days := flag.Int("inventory-days", cfg.Generator.InventoryDays, "number of daily inventory snapshots")
	flag.Parse()

	ctx = logg.WithFields(ctx, map[string]any{"out": *out, "seed": *seed})

	gen, err := generator.New(generator.Options{
		Seed:          *seed,
		Products:      *products,
		Orders:        *orders,
		InventoryDays: *days,
	})
	if err != nil {
		logg.Error(ctx, "invalid generator options", err)
		os.Exit(1)
	}

	tables := gen.Tables()
	if err := datafiles.SaveTables(*out, datafiles.RawFiles, tables); err != nil {
		logg.Error(ctx, "failed to write tables", err)
		os.Exit(1)
	}
	if err := datafiles.SaveCampaigns(filepath.Join(*out, datafiles.CampaignsFile), generator.Campaigns()); err != nil {
		logg.Error(ctx, "failed to write campaign plan", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "rows", datafiles.Describe(tables)), "dataset generated")
}
