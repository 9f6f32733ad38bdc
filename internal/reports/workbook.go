// Package reports renders cleaning and simulation outcomes as Excel workbooks.
package reports

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/angelmondragon/promopulse-backend/internal/cleaning"
	"github.com/angelmondragon/promopulse-backend/internal/simulation"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
)

const (
	SheetSummary    = "Summary"
	SheetIssues     = "Issues"
	SheetAudit      = "Audit"
	SheetKPIs       = "KPIs"
	SheetRows       = "Rows"
	SheetViolations = "Violations"

	// ContentType is the MIME type of a rendered workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// sheet appends rows to one worksheet, starting at A1.
type sheet struct {
	f    *excelize.File
	name string
	next int
}

type builder struct {
	f      *excelize.File
	header int
	sheets int
}

func newBuilder() (*builder, error) {
	f := excelize.NewFile()
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create header style")
	}
	return &builder{f: f, header: style}, nil
}

// sheet adds a worksheet with a bold header row. The first call renames the
// default sheet.
func (b *builder) sheet(name string, header ...any) (*sheet, error) {
	if b.sheets == 0 {
		if err := b.f.SetSheetName(b.f.GetSheetName(0), name); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rename sheet "+name)
		}
	} else if _, err := b.f.NewSheet(name); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add sheet "+name)
	}
	b.sheets++

	s := &sheet{f: b.f, name: name, next: 1}
	if err := s.append(header...); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "header range")
	}
	if err := b.f.SetCellStyle(name, "A1", last, b.header); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "style header of "+name)
	}
	return s, nil
}

func (s *sheet) append(values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "row address")
	}
	if err := s.f.SetSheetRow(s.name, cell, &values); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write row to "+s.name)
	}
	s.next++
	return nil
}

func (b *builder) fail(err error) (*excelize.File, error) {
	_ = b.f.Close()
	return nil, err
}

// QualityWorkbook renders per-table summaries, the issue log and the rule
// audit findings.
func QualityWorkbook(report cleaning.Report, findings []cleaning.Finding) (*excelize.File, error) {
	b, err := newBuilder()
	if err != nil {
		return nil, err
	}

	summary, err := b.sheet(SheetSummary, "table", "original_records", "cleaned_records", "dropped_records", "issues_found", "quality_score")
	if err != nil {
		return b.fail(err)
	}
	for _, s := range report.Summaries {
		if err := summary.append(s.Table, s.OriginalRecords, s.CleanedRecords, s.DroppedRecords, s.IssuesFound, s.QualityScore); err != nil {
			return b.fail(err)
		}
	}

	issues, err := b.sheet(SheetIssues, "record_identifier", "issue_type", "issue_detail", "action_taken", "source_table")
	if err != nil {
		return b.fail(err)
	}
	for _, i := range report.Issues {
		if err := issues.append(i.RecordIdentifier, i.IssueType.String(), i.IssueDetail, i.ActionTaken.String(), i.Table); err != nil {
			return b.fail(err)
		}
	}

	audit, err := b.sheet(SheetAudit, "table", "field", "checked", "failed", "pass_rate", "reason")
	if err != nil {
		return b.fail(err)
	}
	for _, f := range findings {
		if err := audit.append(f.Table, f.Field, f.Checked, f.Failed, f.PassRate(), f.Reason); err != nil {
			return b.fail(err)
		}
	}
	return b.f, nil
}

// SimulationWorkbook renders a promotion simulation: headline KPIs, the
// per-pair rows and the drill-down tables of each constraint.
func SimulationWorkbook(result simulation.Result) (*excelize.File, error) {
	b, err := newBuilder()
	if err != nil {
		return nil, err
	}

	kpis, err := b.sheet(SheetKPIs, "metric", "value")
	if err != nil {
		return b.fail(err)
	}
	p, k, v := result.Params, result.KPIs, result.Violations
	metrics := [][]any{
		{"city", p.City},
		{"channel", p.Channel},
		{"category", p.Category},
		{"discount_pct", p.DiscountPct},
		{"promo_budget_aed", p.PromoBudgetAED},
		{"margin_floor_pct", p.MarginFloorPct},
		{"simulation_days", p.SimulationDays},
		{"promo_spend", k.PromoSpend},
		{"simulated_revenue", k.SimulatedRevenue},
		{"simulated_margin", k.SimulatedMargin},
		{"simulated_margin_pct", k.SimulatedMarginPct},
		{"profit_proxy", k.ProfitProxy},
		{"budget_utilization_pct", k.BudgetUtilizationPct},
		{"stockout_risk_pct", k.StockoutRiskPct},
		{"high_risk_skus", k.HighRiskSKUs},
		{"budget_exceeded", v.BudgetExceeded},
		{"margin_below_floor", v.MarginBelowFloor},
		{"stockouts_exist", v.StockoutsExist},
	}
	for _, m := range metrics {
		if err := kpis.append(m...); err != nil {
			return b.fail(err)
		}
	}

	rows, err := b.sheet(SheetRows,
		"product_id", "store_id", "city", "channel", "category", "daily_demand", "uplift_factor",
		"simulated_qty", "discounted_price", "simulated_revenue", "simulated_cogs", "simulated_margin",
		"margin_pct", "promo_spend", "stock_on_hand", "stockout_risk", "stock_shortfall")
	if err != nil {
		return b.fail(err)
	}
	for _, r := range result.Rows {
		if err := rows.append(r.ProductID, r.StoreID, r.City, r.Channel, r.Category, r.DailyDemand, r.UpliftFactor,
			r.SimulatedQty, r.DiscountedPrice, r.SimulatedRevenue, r.SimulatedCOGS, r.SimulatedMargin,
			r.MarginPct, r.PromoSpend, r.StockOnHand, r.StockoutRisk, r.StockShortfall); err != nil {
			return b.fail(err)
		}
	}

	drill, err := b.sheet(SheetViolations, "constraint", "product_id", "store_id", "value")
	if err != nil {
		return b.fail(err)
	}
	for _, c := range v.TopBudgetContributors {
		if err := drill.append("budget", c.ProductID, c.StoreID, c.PromoSpend); err != nil {
			return b.fail(err)
		}
	}
	for _, m := range v.TopMarginViolators {
		if err := drill.append("margin", m.ProductID, m.StoreID, m.MarginPct); err != nil {
			return b.fail(err)
		}
	}
	for _, s := range v.TopStockoutRisks {
		if err := drill.append("stockout", s.ProductID, s.StoreID, s.StockShortfall); err != nil {
			return b.fail(err)
		}
	}
	return b.f, nil
}

// Write streams f to w and closes it.
func Write(w io.Writer, f *excelize.File) (err error) {
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, cerr, "close workbook")
		}
	}()
	if err := f.Write(w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write workbook")
	}
	return nil
}
