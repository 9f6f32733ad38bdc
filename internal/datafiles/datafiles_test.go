package datafiles

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
)

func TestReadProductsReportsMissingColumns(t *testing.T) {
	_, err := ReadProducts(strings.NewReader("product_id,category,brand\nP1,Fashion,Moda\n"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeSchema))
	assert.Contains(t, err.Error(), "Products missing required columns: base_price_aed, unit_cost_aed")
}

func TestReadProductsOptionalCost(t *testing.T) {
	input := "\ufeffproduct_id,category,brand,base_price_aed,unit_cost_aed,tax_rate,launch_flag\n" +
		"P0001,Electronics,Acme,199.99,,0.05,New\n" +
		"P0002,Fashion,Moda,80,32.5,0.05,Regular\n"

	rows, err := ReadProducts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "P0001", rows[0].ProductID)
	assert.InDelta(t, 199.99, rows[0].BasePriceAED, 1e-9)
	assert.Nil(t, rows[0].UnitCostAED)
	require.NotNil(t, rows[1].UnitCostAED)
	assert.InDelta(t, 32.5, *rows[1].UnitCostAED, 1e-9)
	assert.Equal(t, "Regular", rows[1].LaunchFlag)
}

func TestReadSalesKeepsDirtyValues(t *testing.T) {
	input := "order_id,order_time,product_id,store_id,qty,selling_price_aed,discount_pct,payment_status,return_flag,city\n" +
		"ORD1,not-a-date,P1,S1,500,25000,,Pending,N,dubai\n" +
		"ORD2,2024-09-01 10:00:00,P1,S1,-2,10.50,5,Paid,Y,\n"

	rows, err := ReadSales(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "not-a-date", rows[0].OrderTime)
	assert.Equal(t, 500, rows[0].Qty)
	assert.Nil(t, rows[0].DiscountPct)
	require.NotNil(t, rows[0].City)
	assert.Equal(t, "dubai", *rows[0].City)
	assert.Nil(t, rows[0].Category)

	assert.Equal(t, -2, rows[1].Qty)
	assert.InDelta(t, 10.5, rows[1].SellingPriceAED, 1e-9)
	require.NotNil(t, rows[1].City, "empty cell in a present column must stay distinguishable")
	assert.Equal(t, "", *rows[1].City)
}

func TestReadSalesCollectsCellErrors(t *testing.T) {
	input := "order_id,order_time,product_id,store_id,qty,selling_price_aed,payment_status\n" +
		"ORD1,2024-09-01 10:00:00,P1,S1,two,10,Paid\n" +
		"ORD2,2024-09-01 10:00:00,P1,S1,1,ten,Paid\n"

	_, err := ReadSales(strings.NewReader(input))
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "Sales row 2: column qty")
	assert.Contains(t, errs[1].Error(), "Sales row 3: column selling_price_aed")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeSchema))
}

func TestReadInventoryAcceptsWholeDecimals(t *testing.T) {
	input := "snapshot_date,product_id,store_id,stock_on_hand\n2024-09-01,P1,S1,12.0\n"
	rows, err := ReadInventory(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 12, rows[0].StockOnHand)
	assert.Equal(t, 0, rows[0].ReorderPoint)

	_, err = ReadInventory(strings.NewReader("snapshot_date,product_id,store_id,stock_on_hand\n2024-09-01,P1,S1,1.5\n"))
	assert.Error(t, err)
}

func TestReadEmptyFile(t *testing.T) {
	_, err := ReadStores(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Stores file is empty")
}

func TestSaveAndLoadTables(t *testing.T) {
	dir := t.TempDir()
	tables := dataset.Tables{
		Products: []dataset.Product{{ProductID: "P1", Category: "Beauty", Brand: "Glow", BasePriceAED: 49.9, UnitCostAED: dataset.Float(20), TaxRate: 0.05, LaunchFlag: "New"}},
		Stores:   []dataset.Store{{StoreID: "S1", City: "Abu Dhabi", Channel: "Web", FulfillmentType: "3PL"}},
		Sales: []dataset.Sale{{
			OrderID: "ORD1", OrderTime: "2024-09-01 10:00:00", ProductID: "P1", StoreID: "S1",
			Qty: 2, SellingPriceAED: 45.5, DiscountPct: dataset.Float(10), PaymentStatus: "Paid", ReturnFlag: "N",
			Category: dataset.String("Beauty"),
		}},
		Inventory: []dataset.InventorySnapshot{{SnapshotDate: "2024-09-01", ProductID: "P1", StoreID: "S1", StockOnHand: 80, ReorderPoint: 20, LeadTimeDays: 7}},
	}

	require.NoError(t, SaveTables(dir, CleanFiles, tables))

	raw, err := os.ReadFile(filepath.Join(dir, CleanFiles.Sales))
	require.NoError(t, err)
	assert.Equal(t,
		"order_id,order_time,product_id,store_id,qty,selling_price_aed,discount_pct,payment_status,return_flag,category\n"+
			"ORD1,2024-09-01 10:00:00,P1,S1,2,45.50,10.00,Paid,N,Beauty\n",
		string(raw))

	products, err := os.ReadFile(filepath.Join(dir, CleanFiles.Products))
	require.NoError(t, err)
	assert.Contains(t, string(products), "P1,Beauty,Glow,49.90,20.00,0.05,New\n")

	loaded, err := LoadTables(dir, CleanFiles)
	require.NoError(t, err)
	assert.Equal(t, tables, loaded)
}

func TestLoadTablesReportsEveryMissingFile(t *testing.T) {
	_, err := LoadTables(t.TempDir(), RawFiles)
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 4)
	for _, e := range errs {
		assert.True(t, pkgerrors.IsCode(e, pkgerrors.CodeNotFound))
	}
	assert.Contains(t, err.Error(), "sales_raw.csv")
}

func TestIssuesAndCampaignsFiles(t *testing.T) {
	dir := t.TempDir()
	issues := []dataset.Issue{{Table: "sales", RecordIdentifier: "ORD1", IssueType: "DUPLICATE_ID", IssueDetail: "Duplicate order_id - multiple transactions", ActionTaken: "DROPPED"}}
	require.NoError(t, SaveIssues(filepath.Join(dir, IssuesFile), issues))
	gotIssues, err := LoadIssues(filepath.Join(dir, IssuesFile))
	require.NoError(t, err)
	assert.Equal(t, issues, gotIssues)

	campaigns := []dataset.Campaign{{CampaignID: "C001", StartDate: "2025-01-15", EndDate: "2025-01-22", City: "Dubai", Channel: "App", Category: "Electronics", DiscountPct: 25, PromoBudgetAED: 50000}}
	var buf bytes.Buffer
	require.NoError(t, WriteCampaigns(&buf, campaigns))
	assert.Contains(t, buf.String(), "C001,2025-01-15,2025-01-22,Dubai,App,Electronics,25.00,50000.00")
	gotCampaigns, err := ReadCampaigns(&buf)
	require.NoError(t, err)
	assert.Equal(t, campaigns, gotCampaigns)
}
