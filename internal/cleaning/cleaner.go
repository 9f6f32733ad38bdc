// Package cleaning validates raw tables and repairs them according to a fixed
// policy table, logging every correction or drop.
package cleaning

import (
	"context"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
)

// Recorder receives pipeline counters. pkg/metrics.PipelineMetrics satisfies it.
type Recorder interface {
	IncIssue(table string, issueType enums.IssueType)
	AddDropped(table string, n int)
}

// Summary reports record counts for one cleaned table.
type Summary struct {
	Table           string  `json:"table"`
	OriginalRecords int     `json:"original_records"`
	CleanedRecords  int     `json:"cleaned_records"`
	DroppedRecords  int     `json:"dropped_records"`
	IssuesFound     int     `json:"issues_found"`
	QualityScore    float64 `json:"quality_score"`
}

func newSummary(table string, original, cleaned, issues int) Summary {
	score := 0.0
	if original > 0 {
		score = float64(cleaned) / float64(original) * 100
	}
	return Summary{
		Table:           table,
		OriginalRecords: original,
		CleanedRecords:  cleaned,
		DroppedRecords:  original - cleaned,
		IssuesFound:     issues,
		QualityScore:    score,
	}
}

// Result is the outcome of cleaning a single table.
type Result[T any] struct {
	Rows    []T
	Issues  []dataset.Issue
	Summary Summary
}

// Report is the outcome of CleanAll.
type Report struct {
	Tables    dataset.Tables
	Issues    []dataset.Issue
	Summaries []Summary
}

// Summary returns the summary for table, if present.
func (r Report) Summary(table string) (Summary, bool) {
	for _, s := range r.Summaries {
		if s.Table == table {
			return s, true
		}
	}
	return Summary{}, false
}

// Cleaner runs the per-table cleaning passes. It holds no dataset state, so a
// single value may be reused across runs.
type Cleaner struct {
	logg     *logger.Logger
	recorder Recorder
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithLogger sets the logger used for per-table summaries.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Cleaner) { c.logg = logg }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Cleaner) { c.recorder = r }
}

// New builds a Cleaner.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CleanAll cleans products, stores, sales and inventory in that order and
// returns independent clean copies plus the concatenated issue log.
func (c *Cleaner) CleanAll(ctx context.Context, raw dataset.Tables) Report {
	products := c.CleanProducts(ctx, raw.Products)
	stores := c.CleanStores(ctx, raw.Stores)
	sales := c.CleanSales(ctx, raw.Sales)
	inventory := c.CleanInventory(ctx, raw.Inventory)

	issues := make([]dataset.Issue, 0, len(products.Issues)+len(stores.Issues)+len(sales.Issues)+len(inventory.Issues))
	issues = append(issues, products.Issues...)
	issues = append(issues, stores.Issues...)
	issues = append(issues, sales.Issues...)
	issues = append(issues, inventory.Issues...)

	report := Report{
		Tables: dataset.Tables{
			Products:  products.Rows,
			Stores:    stores.Rows,
			Sales:     sales.Rows,
			Inventory: inventory.Rows,
		},
		Issues:    issues,
		Summaries: []Summary{products.Summary, stores.Summary, sales.Summary, inventory.Summary},
	}

	if c.logg != nil {
		ctx = c.logg.WithFields(ctx, map[string]any{
			"issues_total": len(issues),
			"sales_rows":   len(sales.Rows),
		})
		c.logg.Info(ctx, "cleaning.complete")
	}
	return report
}

func finish[T any](ctx context.Context, c *Cleaner, journal *Journal, original int, rows []T) Result[T] {
	summary := newSummary(journal.Table(), original, len(rows), journal.Len())
	issues := journal.Entries()

	if c.recorder != nil {
		for _, issue := range issues {
			c.recorder.IncIssue(issue.Table, issue.IssueType)
		}
		c.recorder.AddDropped(summary.Table, summary.DroppedRecords)
	}
	if c.logg != nil {
		ctx = c.logg.WithTable(ctx, summary.Table)
		ctx = c.logg.WithFields(ctx, map[string]any{
			"original":      summary.OriginalRecords,
			"cleaned":       summary.CleanedRecords,
			"dropped":       summary.DroppedRecords,
			"issues":        summary.IssuesFound,
			"quality_score": summary.QualityScore,
		})
		c.logg.Info(ctx, "cleaning.table.complete")
	}

	return Result[T]{Rows: rows, Issues: issues, Summary: summary}
}
