package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/promopulse-backend/internal/cleaning"
	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/internal/simulation"
)

// Snapshot is one loaded dataset: the cleaned tables with their issue log,
// the rule audit and the simulator built over them. Version changes on every
// load and scopes cached simulation results.
type Snapshot struct {
	Version   string
	LoadedAt  time.Time
	Report    cleaning.Report
	Findings  []cleaning.Finding
	Campaigns []dataset.Campaign
	sim       *simulation.Simulator
}

// FromRaw audits and cleans raw tables, then builds the simulator.
func FromRaw(ctx context.Context, c *cleaning.Cleaner, raw dataset.Tables, campaigns []dataset.Campaign) (*Snapshot, error) {
	findings := cleaning.Audit(raw)
	report := c.CleanAll(ctx, raw)
	return newSnapshot(report, findings, campaigns)
}

// FromClean wraps tables that were cleaned earlier together with their issue
// log. Per-table summaries are not available in this mode.
func FromClean(tables dataset.Tables, issues []dataset.Issue, campaigns []dataset.Campaign) (*Snapshot, error) {
	report := cleaning.Report{Tables: tables, Issues: issues}
	return newSnapshot(report, cleaning.Audit(tables), campaigns)
}

func newSnapshot(report cleaning.Report, findings []cleaning.Finding, campaigns []dataset.Campaign) (*Snapshot, error) {
	sim, err := simulation.New(report.Tables)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Version:   uuid.NewString(),
		LoadedAt:  time.Now().UTC(),
		Report:    report,
		Findings:  findings,
		Campaigns: campaigns,
		sim:       sim,
	}, nil
}

// Simulator exposes the simulator built over the cleaned tables.
func (s *Snapshot) Simulator() *simulation.Simulator {
	return s.sim
}
