package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/promopulse-backend/internal/cleaning"
	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
)

func smallOptions() Options {
	return Options{Seed: 7, Products: 60, Orders: 2000, InventoryDays: 5}
}

func generate(t *testing.T, opts Options) dataset.Tables {
	t.Helper()
	g, err := New(opts)
	require.NoError(t, err)
	return g.Tables()
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	for name, opts := range map[string]Options{
		"no products":       {Products: 0, Orders: 1, InventoryDays: 1},
		"negative orders":   {Products: 1, Orders: -1, InventoryDays: 1},
		"no inventory days": {Products: 1, Orders: 1, InventoryDays: 0},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(opts)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}
}

func TestTablesAreDeterministic(t *testing.T) {
	first := generate(t, smallOptions())
	second := generate(t, smallOptions())
	assert.Equal(t, first, second)

	other := smallOptions()
	other.Seed = 8
	assert.NotEqual(t, first.Sales, generate(t, other).Sales)
}

func TestTableShapes(t *testing.T) {
	opts := smallOptions()
	tables := generate(t, opts)

	require.Len(t, tables.Products, opts.Products)
	assert.Equal(t, "P0001", tables.Products[0].ProductID)
	assert.Equal(t, "P0060", tables.Products[59].ProductID)

	require.Len(t, tables.Stores, 18)
	assert.Equal(t, "S001", tables.Stores[0].StoreID)
	assert.Equal(t, "S018", tables.Stores[17].StoreID)

	assert.Len(t, tables.Sales, opts.Orders)
	assert.Len(t, tables.Inventory, opts.InventoryDays*20)
	assert.Equal(t, InventoryAnchor.Format(dataset.DateLayout), tables.Inventory[0].SnapshotDate)

	for _, p := range tables.Products {
		assert.GreaterOrEqual(t, p.BasePriceAED, 50.0)
		assert.LessOrEqual(t, p.BasePriceAED, 4050.0)
		if p.UnitCostAED != nil {
			assert.LessOrEqual(t, *p.UnitCostAED, p.BasePriceAED)
		}
	}
	for _, s := range tables.Sales {
		assert.True(t, strings.HasPrefix(s.OrderID, "ORD"))
		assert.True(t, enums.PaymentStatus(s.PaymentStatus).IsValid())
		assert.Contains(t, []string{"Y", "N"}, s.ReturnFlag)
	}
}

func TestGeneratedDataCleansToValidTables(t *testing.T) {
	tables := generate(t, Options{Seed: 42, Products: 300, Orders: 6000, InventoryDays: 30})
	report := cleaning.New().CleanAll(context.Background(), tables)

	assert.NotEmpty(t, report.Issues)
	assert.NotEmpty(t, report.Tables.Sales)

	seen := map[string]bool{}
	for _, s := range report.Tables.Sales {
		assert.False(t, seen[s.OrderID], "duplicate order %s", s.OrderID)
		seen[s.OrderID] = true
		_, err := dataset.ParseOrderTime(s.OrderTime)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, s.Qty, 1)
		assert.LessOrEqual(t, s.Qty, 100)
		assert.LessOrEqual(t, s.SellingPriceAED, 10000.0)
		assert.NotNil(t, s.DiscountPct)
	}
	for _, st := range report.Tables.Stores {
		assert.True(t, enums.City(st.City).IsValid(), "city %q", st.City)
	}
	for _, p := range report.Tables.Products {
		require.NotNil(t, p.UnitCostAED)
		assert.LessOrEqual(t, *p.UnitCostAED, p.BasePriceAED)
	}
	for _, inv := range report.Tables.Inventory {
		assert.GreaterOrEqual(t, inv.StockOnHand, 0)
		assert.LessOrEqual(t, inv.StockOnHand, 500)
	}
}

func TestCampaigns(t *testing.T) {
	campaigns := Campaigns()
	require.Len(t, campaigns, 10)
	assert.Equal(t, "C001", campaigns[0].CampaignID)
	assert.Equal(t, "All", campaigns[1].City)
	assert.InDelta(t, 25000, campaigns[9].PromoBudgetAED, 1e-9)
}
