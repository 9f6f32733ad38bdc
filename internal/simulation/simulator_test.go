package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
)

func paidSale(id, ts, product, store string, qty int, price float64) dataset.Sale {
	return dataset.Sale{
		OrderID:         id,
		OrderTime:       ts,
		ProductID:       product,
		StoreID:         store,
		Qty:             qty,
		SellingPriceAED: price,
		DiscountPct:     dataset.Float(0),
		PaymentStatus:   "Paid",
		ReturnFlag:      "N",
	}
}

func kpiTables() dataset.Tables {
	return dataset.Tables{
		Products: []dataset.Product{
			{ProductID: "P1", Category: "Electronics", Brand: "Acme", BasePriceAED: 100, UnitCostAED: dataset.Float(40)},
			{ProductID: "P2", Category: "Grocery", Brand: "Farm", BasePriceAED: 50, UnitCostAED: dataset.Float(20)},
		},
		Stores: []dataset.Store{
			{StoreID: "S1", City: "Dubai", Channel: "App", FulfillmentType: "Own"},
			{StoreID: "S2", City: "Sharjah", Channel: "Web", FulfillmentType: "3PL"},
		},
		Sales: []dataset.Sale{
			paidSale("ORD1", "2024-09-01 10:00:00", "P1", "S1", 2, 100),
			paidSale("ORD2", "2024-09-02 10:00:00", "P2", "S2", 1, 50),
		},
	}
}

func TestNewJoinsProductsAndStores(t *testing.T) {
	tables := kpiTables()
	tables.Sales = append(tables.Sales, paidSale("ORD3", "2024-09-03 10:00:00", "P404", "S404", 1, 10))

	sim, err := New(tables)
	require.NoError(t, err)

	sales := sim.Sales()
	require.Len(t, sales, 3)
	assert.Equal(t, "Electronics", sales[0].Category)
	assert.Equal(t, "Acme", sales[0].Brand)
	assert.Equal(t, 40.0, sales[0].UnitCostAED)
	assert.Equal(t, "Dubai", sales[0].City)
	assert.Equal(t, "App", sales[0].Channel)
	assert.Equal(t, "", sales[2].Category)
	assert.Equal(t, "", sales[2].City)
	assert.Equal(t, "2024-09-03 10:00:00", dataset.FormatOrderTime(sim.LatestOrderTime()))

	sales[0].Qty = 99
	assert.Equal(t, 2, sim.Sales()[0].Qty)
}

func TestNewRejectsBrokenContract(t *testing.T) {
	dupProducts := kpiTables()
	dupProducts.Products = append(dupProducts.Products, dupProducts.Products[0])
	_, err := New(dupProducts)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeContract))

	dupStores := kpiTables()
	dupStores.Stores = append(dupStores.Stores, dupStores.Stores[1])
	_, err = New(dupStores)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeContract))

	badTime := kpiTables()
	badTime.Sales[0].OrderTime = "yesterday"
	_, err = New(badTime)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeContract))
	assert.Contains(t, err.Error(), "ORD1")

	badSnapshot := kpiTables()
	badSnapshot.Inventory = []dataset.InventorySnapshot{{SnapshotDate: "01/09/2024", ProductID: "P1", StoreID: "S1"}}
	_, err = New(badSnapshot)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeContract))
}

func TestComputeKPIs(t *testing.T) {
	sim, err := New(kpiTables())
	require.NoError(t, err)

	k := sim.KPIs()
	assert.InDelta(t, 250.0, k.GrossRevenue, 1e-9)
	assert.InDelta(t, 100.0, k.COGS, 1e-9)
	assert.InDelta(t, 150.0, k.GrossMarginAED, 1e-9)
	assert.InDelta(t, 60.0, k.GrossMarginPct, 1e-9)
	assert.Equal(t, 2, k.TotalTransactions)
	assert.Equal(t, 2, k.PaidTransactions)
}

func TestComputeKPIsRefundsFailuresAndReturns(t *testing.T) {
	rows := []EnrichedSale{
		{Qty: 2, SellingPriceAED: 100, UnitCostAED: 40, PaymentStatus: enums.PaymentStatusPaid, DiscountPct: 10, ReturnFlag: "N"},
		{Qty: 1, SellingPriceAED: 30, UnitCostAED: 10, PaymentStatus: enums.PaymentStatusRefunded, DiscountPct: 20, ReturnFlag: "Y"},
		{Qty: 1, SellingPriceAED: 70, UnitCostAED: 10, PaymentStatus: enums.PaymentStatusFailed, DiscountPct: 30, ReturnFlag: "N"},
		{Qty: 1, SellingPriceAED: 50, UnitCostAED: 20, PaymentStatus: enums.PaymentStatusPaid, DiscountPct: 0, ReturnFlag: "Y"},
	}

	k := ComputeKPIs(rows)
	assert.InDelta(t, 250.0, k.GrossRevenue, 1e-9)
	assert.InDelta(t, 30.0, k.RefundAmount, 1e-9)
	assert.InDelta(t, 220.0, k.NetRevenue, 1e-9)
	assert.InDelta(t, 100.0, k.COGS, 1e-9)
	assert.InDelta(t, 120.0, k.GrossMarginAED, 1e-9)
	assert.InDelta(t, 120.0/220.0*100, k.GrossMarginPct, 1e-9)
	assert.InDelta(t, 15.0, k.AvgDiscountPct, 1e-9)
	assert.InDelta(t, 50.0, k.ReturnRatePct, 1e-9)
	assert.InDelta(t, 25.0, k.PaymentFailureRatePct, 1e-9)
}

func TestComputeKPIsEmptyIsZero(t *testing.T) {
	k := ComputeKPIs(nil)
	assert.Equal(t, KPIs{}, k)
	assert.Equal(t, 0.0, k.GrossMarginPct)

	refundsOnly := ComputeKPIs([]EnrichedSale{
		{Qty: 1, SellingPriceAED: 10, PaymentStatus: enums.PaymentStatusRefunded},
	})
	assert.Equal(t, 0.0, refundsOnly.GrossMarginPct)
	assert.InDelta(t, -10.0, refundsOnly.NetRevenue, 1e-9)
}

func TestFilter(t *testing.T) {
	sim, err := New(kpiTables())
	require.NoError(t, err)

	assert.Len(t, sim.Filter(Filter{}), 2)
	assert.Len(t, sim.Filter(Filter{City: "All", Channel: "All"}), 2)

	dubai := sim.Filter(Filter{City: "Dubai"})
	require.Len(t, dubai, 1)
	assert.Equal(t, "ORD1", dubai[0].OrderID)

	assert.Len(t, sim.Filter(Filter{Brand: "Farm"}), 1)
	assert.Empty(t, sim.Filter(Filter{City: "Dubai", Category: "Grocery"}))

	from, err := dataset.ParseDate("2024-09-02")
	require.NoError(t, err)
	windowed := sim.Filter(Filter{From: from})
	require.Len(t, windowed, 1)
	assert.Equal(t, "ORD2", windowed[0].OrderID)

	first, err := dataset.ParseDate("2024-09-01")
	require.NoError(t, err)
	upToFirst := sim.Filter(Filter{To: first})
	require.Len(t, upToFirst, 1)
	assert.Equal(t, "ORD1", upToFirst[0].OrderID)
	assert.Len(t, sim.Filter(Filter{From: first, To: from}), 2, "the last day of the window is included")

	singleDay := sim.Filter(Filter{From: from, To: from})
	require.Len(t, singleDay, 1)
	assert.Equal(t, "ORD2", singleDay[0].OrderID)
}
