package cleaning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFinding(findings []Finding, table, field string) (Finding, bool) {
	for _, f := range findings {
		if f.Table == table && f.Field == field {
			return f, true
		}
	}
	return Finding{}, false
}

func TestAuditCountsFailuresPerColumn(t *testing.T) {
	findings := Audit(dirtyTables())

	ts, ok := findFinding(findings, "sales", "order_time")
	require.True(t, ok)
	assert.Equal(t, 9, ts.Checked)
	// not-a-date and the ISO T layout both break the strict rule.
	assert.Equal(t, 2, ts.Failed)
	assert.Equal(t, []string{"ORD0002", "ORD0006"}, ts.Samples)

	qty, ok := findFinding(findings, "sales", "qty")
	require.True(t, ok)
	assert.Equal(t, 2, qty.Failed)

	city, ok := findFinding(findings, "stores", "city")
	require.True(t, ok)
	assert.Equal(t, 3, city.Failed)
	assert.InDelta(t, 40.0, city.PassRate(), 0.001)

	cost, ok := findFinding(findings, "products", "unit_cost_aed")
	require.True(t, ok)
	assert.Equal(t, 1, cost.Failed)
	assert.Equal(t, []string{"P0003"}, cost.Samples)

	stock, ok := findFinding(findings, "inventory", "stock_on_hand")
	require.True(t, ok)
	assert.Equal(t, 2, stock.Failed)

	_, ok = findFinding(findings, "sales", "city")
	require.True(t, ok)
}

func TestAuditOfCleanedDatasetPasses(t *testing.T) {
	report := New().CleanAll(context.Background(), dirtyTables())
	for _, f := range Audit(report.Tables) {
		assert.Zero(t, f.Failed, "%s.%s: %s", f.Table, f.Field, f.Reason)
	}
}
