// Package generator produces a seeded synthetic dataset with the data quality
// problems the cleaner is expected to repair.
package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
)

// Injection rates of each data quality problem.
const (
	MissingCostRate       = 0.02
	CityVariantRate       = 0.26
	DuplicateOrderRate    = 0.005
	CorruptTimestampRate  = 0.016
	OutlierQtyRate        = 0.004
	OutlierPriceRate      = 0.004
	MissingDiscountRate   = 0.03
	ImpossibleStockRate   = 0.006
	NewLaunchRate         = 0.15
	ReturnRate            = 0.05
	duplicateLookback     = 100
	salesHistoryDays      = 120
	inventorySampleStride = 3
)

var (
	// SalesAnchor is the most recent possible order date.
	SalesAnchor = time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)
	// InventoryAnchor is the most recent snapshot date.
	InventoryAnchor = time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC)

	brands = []string{"Samsung", "Apple", "Nike", "Adidas", "LG", "Sony", "Puma", "H&M", "Zara", "Noon", "Carrefour", "Lulu"}

	cityVariants = map[enums.City][]string{
		enums.CityDubai:    {"Dubai", "DUBAI", "dubai", "Dubayy", "Dubai ", " Dubai"},
		enums.CityAbuDhabi: {"Abu Dhabi", "ABU DHABI", "abu dhabi", "AbuDhabi", "Abu-Dhabi"},
		enums.CitySharjah:  {"Sharjah", "SHARJAH", "sharjah", "Sharja", "Sharjh"},
	}

	corruptTimestamps = []string{"not_a_time", "2024-13-45", "99/99/9999", "invalid", "2024-02-30 25:99:99"}
)

// Options sizes a generated dataset.
type Options struct {
	Seed          uint64
	Products      int
	Orders        int
	InventoryDays int
}

// DefaultOptions matches the reference dataset size.
func DefaultOptions() Options {
	return Options{Seed: 42, Products: 300, Orders: 32500, InventoryDays: 30}
}

func (o Options) validate() error {
	switch {
	case o.Products < 1:
		return pkgerrors.Newf(pkgerrors.CodeValidation, "products must be at least 1, got %d", o.Products)
	case o.Orders < 0:
		return pkgerrors.Newf(pkgerrors.CodeValidation, "orders must not be negative, got %d", o.Orders)
	case o.InventoryDays < 1:
		return pkgerrors.Newf(pkgerrors.CodeValidation, "inventory days must be at least 1, got %d", o.InventoryDays)
	}
	return nil
}

// Generator draws every table from one seeded source, so equal options
// always yield equal tables.
type Generator struct {
	opts Options
	rng  *rand.Rand
}

// New validates opts and seeds a generator.
func New(opts Options) (*Generator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Generator{
		opts: opts,
		rng:  rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Tables generates products, stores, sales and inventory in that order.
func (g *Generator) Tables() dataset.Tables {
	products := g.Products()
	stores := g.Stores()
	return dataset.Tables{
		Products:  products,
		Stores:    stores,
		Sales:     g.Sales(products, stores),
		Inventory: g.Inventory(products, stores),
	}
}

func (g *Generator) chance(rate float64) bool {
	return g.rng.Float64() < rate
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func pick[T any](g *Generator, values []T) T {
	return values[g.rng.IntN(len(values))]
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Products generates the catalogue; a share of rows has no unit cost.
func (g *Generator) Products() []dataset.Product {
	categories := enums.Categories()
	out := make([]dataset.Product, 0, g.opts.Products)
	for i := 1; i <= g.opts.Products; i++ {
		base := round2(g.uniform(50, 4050))
		p := dataset.Product{
			ProductID:    fmt.Sprintf("P%04d", i),
			Category:     pick(g, categories).String(),
			Brand:        pick(g, brands),
			BasePriceAED: base,
			TaxRate:      0.05,
			LaunchFlag:   "Regular",
		}
		if !g.chance(MissingCostRate) {
			p.UnitCostAED = dataset.Float(round2(base * g.uniform(0.4, 0.7)))
		}
		if g.chance(NewLaunchRate) {
			p.LaunchFlag = "New"
		}
		out = append(out, p)
	}
	return out
}

// Stores generates one store per city, channel and fulfillment type. Some
// rows carry a misspelt city.
func (g *Generator) Stores() []dataset.Store {
	out := make([]dataset.Store, 0, len(enums.Cities())*6)
	id := 1
	for _, city := range enums.Cities() {
		for _, channel := range enums.Channels() {
			for _, fulfillment := range enums.FulfillmentTypes() {
				name := city.String()
				if g.chance(CityVariantRate) {
					name = pick(g, cityVariants[city])
				}
				out = append(out, dataset.Store{
					StoreID:         fmt.Sprintf("S%03d", id),
					City:            name,
					Channel:         channel.String(),
					FulfillmentType: fulfillment.String(),
				})
				id++
			}
		}
	}
	return out
}

// Sales generates order lines over the trailing history window with
// duplicate ids, corrupt timestamps, outliers and missing discounts.
func (g *Generator) Sales(products []dataset.Product, stores []dataset.Store) []dataset.Sale {
	if len(products) == 0 || len(stores) == 0 {
		return []dataset.Sale{}
	}
	out := make([]dataset.Sale, 0, g.opts.Orders)
	for i := 1; i <= g.opts.Orders; i++ {
		orderID := fmt.Sprintf("ORD%06d", i)
		if g.chance(DuplicateOrderRate) && i > duplicateLookback {
			orderID = fmt.Sprintf("ORD%06d", g.between(1, i-duplicateLookback))
		}

		orderAt := SalesAnchor.AddDate(0, 0, -g.between(0, salesHistoryDays))
		orderTime := dataset.FormatOrderTime(orderAt)
		if g.chance(CorruptTimestampRate) {
			orderTime = pick(g, corruptTimestamps)
		}

		product := pick(g, products)
		store := pick(g, stores)

		qty := g.between(1, 5)
		if g.chance(OutlierQtyRate) {
			qty = pick(g, []int{50, 75})
		}

		price := product.BasePriceAED
		if g.chance(OutlierPriceRate) {
			price = round2(price * pick(g, []float64{10, 15}))
		}

		var discount *float64
		if !g.chance(MissingDiscountRate) {
			discount = dataset.Float(float64(g.between(0, 40)))
		}

		status := enums.PaymentStatusPaid
		switch r := g.rng.Float64(); {
		case r >= 0.95:
			status = enums.PaymentStatusRefunded
		case r >= 0.85:
			status = enums.PaymentStatusFailed
		}

		returnFlag := "N"
		if g.chance(ReturnRate) {
			returnFlag = "Y"
		}

		out = append(out, dataset.Sale{
			OrderID:         orderID,
			OrderTime:       orderTime,
			ProductID:       product.ProductID,
			StoreID:         store.StoreID,
			Qty:             qty,
			SellingPriceAED: price,
			DiscountPct:     discount,
			PaymentStatus:   status.String(),
			ReturnFlag:      returnFlag,
		})
	}
	return out
}

// Inventory generates daily snapshots for every third product, each at a
// random store. A share of rows has negative or impossible stock.
func (g *Generator) Inventory(products []dataset.Product, stores []dataset.Store) []dataset.InventorySnapshot {
	if len(products) == 0 || len(stores) == 0 {
		return []dataset.InventorySnapshot{}
	}
	out := make([]dataset.InventorySnapshot, 0, g.opts.InventoryDays*(len(products)/inventorySampleStride+1))
	for day := 0; day < g.opts.InventoryDays; day++ {
		date := InventoryAnchor.AddDate(0, 0, -day).Format(dataset.DateLayout)
		for i := 0; i < len(products); i += inventorySampleStride {
			store := pick(g, stores)
			stock := g.between(10, 210)
			if g.chance(ImpossibleStockRate) {
				stock = pick(g, []int{-15, 9999})
			}
			out = append(out, dataset.InventorySnapshot{
				SnapshotDate: date,
				ProductID:    products[i].ProductID,
				StoreID:      store.StoreID,
				StockOnHand:  stock,
				ReorderPoint: g.between(20, 70),
				LeadTimeDays: g.between(3, 12),
			})
		}
	}
	return out
}

// Campaigns returns the fixed campaign plan. "All" leaves a dimension open.
func Campaigns() []dataset.Campaign {
	row := func(id, start, end, city, channel, category string, discount, budget float64) dataset.Campaign {
		return dataset.Campaign{
			CampaignID: id, StartDate: start, EndDate: end,
			City: city, Channel: channel, Category: category,
			DiscountPct: discount, PromoBudgetAED: budget,
		}
	}
	return []dataset.Campaign{
		row("C001", "2025-01-15", "2025-01-22", "Dubai", "App", "Electronics", 25, 50000),
		row("C002", "2025-01-15", "2025-01-29", "All", "Web", "Fashion", 20, 75000),
		row("C003", "2025-01-18", "2025-01-25", "Abu Dhabi", "Marketplace", "All", 30, 40000),
		row("C004", "2025-01-10", "2025-01-20", "Sharjah", "All", "Grocery", 15, 30000),
		row("C005", "2025-01-12", "2025-01-26", "All", "App", "Beauty", 22, 60000),
		row("C006", "2025-01-20", "2025-02-03", "Dubai", "Web", "Home & Kitchen", 18, 45000),
		row("C007", "2025-01-14", "2025-01-28", "All", "Marketplace", "Sports", 28, 55000),
		row("C008", "2025-01-16", "2025-01-23", "Abu Dhabi", "App", "All", 20, 70000),
		row("C009", "2025-01-19", "2025-02-02", "Sharjah", "Web", "Toys", 25, 35000),
		row("C010", "2025-01-11", "2025-01-25", "Dubai", "All", "Books", 30, 25000),
	}
}
