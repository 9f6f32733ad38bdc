package analytics

import (
	"context"
	"path/filepath"

	"github.com/angelmondragon/promopulse-backend/internal/cleaning"
	"github.com/angelmondragon/promopulse-backend/internal/datafiles"
	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
)

// LoadSnapshot reads the dataset selected by cfg.Source. Raw files are
// audited and cleaned in memory; clean files are used as-is together with
// their issue log. A missing campaign plan is logged and treated as empty.
func LoadSnapshot(ctx context.Context, cfg config.DataConfig, c *cleaning.Cleaner, logg *logger.Logger) (*Snapshot, error) {
	if logg == nil {
		logg = logger.Nop()
	}

	dir, files := cfg.RawDir, datafiles.RawFiles
	if cfg.UseCleanFiles() {
		dir, files = cfg.CleanDir, datafiles.CleanFiles
	}
	ctx = logg.WithFields(ctx, map[string]any{"data_dir": dir, "data_source": cfg.Source})

	tables, err := datafiles.LoadTables(dir, files)
	if err != nil {
		return nil, err
	}
	logg.Info(logg.WithField(ctx, "rows", datafiles.Describe(tables)), "dataset.loaded")

	campaigns, err := datafiles.LoadCampaigns(filepath.Join(dir, datafiles.CampaignsFile))
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		logg.Warn(ctx, "dataset.campaigns_missing")
		campaigns = []dataset.Campaign{}
	case err != nil:
		return nil, err
	}

	var snap *Snapshot
	if cfg.UseCleanFiles() {
		issues, ierr := datafiles.LoadIssues(filepath.Join(dir, datafiles.IssuesFile))
		if ierr != nil {
			return nil, ierr
		}
		snap, err = FromClean(tables, issues, campaigns)
	} else {
		snap, err = FromRaw(ctx, c, tables, campaigns)
	}
	if err != nil {
		return nil, err
	}

	ctx = logg.WithDataset(ctx, snap.Version)
	logg.Info(logg.WithFields(ctx, map[string]any{
		"issues":            len(snap.Report.Issues),
		"campaigns":         len(snap.Campaigns),
		"latest_order_time": dataset.FormatOrderTime(snap.Simulator().LatestOrderTime()),
	}), "dataset.ready")
	return snap, nil
}
