package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/promopulse-backend/internal/cleaning"
	"github.com/angelmondragon/promopulse-backend/internal/datafiles"
	"github.com/angelmondragon/promopulse-backend/internal/reports"
	"github.com/angelmondragon/promopulse-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cleaner"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	in := flag.String("in", cfg.Data.RawDir, "directory holding the raw CSV tables")
	out := flag.String("out", cfg.Data.CleanDir, "directory for the cleaned tables and issues.csv")
	report := flag.String("report", cfg.Data.ReportPath, "path of the Excel quality report (empty to skip)")
	flag.Parse()

	logg = logger.New(logger.Options{
		ServiceName: "cleaner",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx = logg.WithFields(ctx, map[string]any{"in": *in, "out": *out})

	if err := run(ctx, logg, *in, *out, *report); err != nil {
		logg.Error(logg.WithField(ctx, "causes", pkgerrors.Dump(err).Causes), "cleaning failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logg *logger.Logger, in, out, reportPath string) error {
	raw, err := datafiles.LoadTables(in, datafiles.RawFiles)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "rows", datafiles.Describe(raw)), "raw dataset loaded")

	findings := cleaning.Audit(raw)
	result := cleaning.New(cleaning.WithLogger(logg)).CleanAll(ctx, raw)

	if err := datafiles.SaveTables(out, datafiles.CleanFiles, result.Tables); err != nil {
		return err
	}
	if err := datafiles.SaveIssues(filepath.Join(out, datafiles.IssuesFile), result.Issues); err != nil {
		return err
	}

	campaigns, err := datafiles.LoadCampaigns(filepath.Join(in, datafiles.CampaignsFile))
	switch {
	case err == nil:
		if err := datafiles.SaveCampaigns(filepath.Join(out, datafiles.CampaignsFile), campaigns); err != nil {
			return err
		}
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		logg.Warn(ctx, "campaign plan not found, skipping")
	default:
		return err
	}

	if reportPath != "" {
		book, err := reports.QualityWorkbook(result, findings)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(reportPath), 0o755); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create report directory")
		}
		if err := book.SaveAs(reportPath); err != nil {
			_ = book.Close()
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save quality report")
		}
		if err := book.Close(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close quality report")
		}
	}

	for _, s := range result.Summaries {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"table":         s.Table,
			"original":      s.OriginalRecords,
			"cleaned":       s.CleanedRecords,
			"dropped":       s.DroppedRecords,
			"issues":        s.IssuesFound,
			"quality_score": s.QualityScore,
		}), "table cleaned")
	}
	logg.Info(logg.WithField(ctx, "issues", len(result.Issues)), "cleaning complete")
	return nil
}
