package simulation

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/angelmondragon/promopulse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
)

const (
	// BaselineWindowDays is the trailing window used for baseline demand.
	BaselineWindowDays = 30
	topN               = 10
)

var channelMultipliers = map[string]float64{
	enums.ChannelMarketplace.String(): 1.3,
	enums.ChannelApp.String():         1.2,
	enums.ChannelWeb.String():         1.0,
}

var categoryMultipliers = map[string]float64{
	enums.CategoryElectronics.String(): 1.2,
	enums.CategoryFashion.String():     1.2,
	enums.CategoryBeauty.String():      1.1,
	enums.CategorySports.String():      1.1,
}

// ChannelMultiplier is the demand multiplier for a channel; unknown channels get 1.0.
func ChannelMultiplier(channel string) float64 {
	if m, ok := channelMultipliers[channel]; ok {
		return m
	}
	return 1.0
}

// CategoryMultiplier is the demand multiplier for a category; others get 1.0.
func CategoryMultiplier(category string) float64 {
	if m, ok := categoryMultipliers[category]; ok {
		return m
	}
	return 1.0
}

// BaseUplift is 1 + discount/10.
func BaseUplift(discountPct float64) float64 {
	return 1 + discountPct/10
}

// Params are the inputs of one promotion simulation.
type Params struct {
	City           string  `json:"city"`
	Channel        string  `json:"channel"`
	Category       string  `json:"category"`
	DiscountPct    float64 `json:"discount_pct"`
	PromoBudgetAED float64 `json:"promo_budget_aed"`
	MarginFloorPct float64 `json:"margin_floor_pct"`
	SimulationDays int     `json:"simulation_days"`
}

// Validate rejects discounts outside [0, 100] and non-positive horizons.
func (p Params) Validate() error {
	if math.IsNaN(p.DiscountPct) || p.DiscountPct < 0 || p.DiscountPct > 100 {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "discount_pct must be within [0, 100], got %v", p.DiscountPct)
	}
	if p.SimulationDays < 1 {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "simulation_days must be at least 1, got %d", p.SimulationDays)
	}
	return nil
}

// Row is the simulated outcome for one (product, store) pair.
type Row struct {
	ProductID            string  `json:"product_id"`
	StoreID              string  `json:"store_id"`
	City                 string  `json:"city"`
	Channel              string  `json:"channel"`
	Category             string  `json:"category"`
	DailyDemand          float64 `json:"daily_demand"`
	UpliftFactor         float64 `json:"uplift_factor"`
	SimulatedDailyDemand float64 `json:"simulated_daily_demand"`
	SimulatedQty         int     `json:"simulated_qty"`
	BasePriceAED         float64 `json:"base_price_aed"`
	UnitCostAED          float64 `json:"unit_cost_aed"`
	DiscountedPrice      float64 `json:"discounted_price"`
	SimulatedRevenue     float64 `json:"simulated_revenue"`
	SimulatedCOGS        float64 `json:"simulated_cogs"`
	SimulatedMargin      float64 `json:"simulated_margin"`
	MarginPct            float64 `json:"margin_pct"`
	PromoSpend           float64 `json:"promo_spend"`
	StockOnHand          int     `json:"stock_on_hand"`
	StockoutRisk         bool    `json:"stockout_risk"`
	StockShortfall       int     `json:"stock_shortfall"`
}

// BudgetContributor is a drill-down entry ranked by promo spend.
type BudgetContributor struct {
	ProductID  string  `json:"product_id"`
	StoreID    string  `json:"store_id"`
	PromoSpend float64 `json:"promo_spend"`
}

// MarginViolator is a drill-down entry below the margin floor, ranked by revenue.
type MarginViolator struct {
	ProductID        string  `json:"product_id"`
	StoreID          string  `json:"store_id"`
	MarginPct        float64 `json:"margin_pct"`
	SimulatedRevenue float64 `json:"simulated_revenue"`
}

// StockoutRisk is a drill-down entry ranked by shortfall.
type StockoutRisk struct {
	ProductID      string `json:"product_id"`
	StoreID        string `json:"store_id"`
	SimulatedQty   int    `json:"simulated_qty"`
	StockOnHand    int    `json:"stock_on_hand"`
	StockShortfall int    `json:"stock_shortfall"`
}

// Violations is the constraint evaluation of a simulation.
type Violations struct {
	BudgetExceeded        bool                `json:"budget_exceeded"`
	MarginBelowFloor      bool                `json:"margin_below_floor"`
	StockoutsExist        bool                `json:"stockouts_exist"`
	BudgetUtilizationPct  float64             `json:"budget_utilization_pct"`
	MarginGap             float64             `json:"margin_gap"`
	StockoutRiskPct       float64             `json:"stockout_risk_pct"`
	TopBudgetContributors []BudgetContributor `json:"top_budget_contributors"`
	TopMarginViolators    []MarginViolator    `json:"top_margin_violators"`
	TopStockoutRisks      []StockoutRisk      `json:"top_stockout_risks"`
}

// Any reports whether the budget or margin constraint is broken.
func (v Violations) Any() bool {
	return v.BudgetExceeded || v.MarginBelowFloor
}

// SimKPIs summarises a simulation.
type SimKPIs struct {
	PromoSpend           float64 `json:"promo_spend"`
	SimulatedRevenue     float64 `json:"simulated_revenue"`
	SimulatedMargin      float64 `json:"simulated_margin"`
	SimulatedMarginPct   float64 `json:"simulated_margin_pct"`
	ProfitProxy          float64 `json:"profit_proxy"`
	BudgetUtilizationPct float64 `json:"budget_utilization_pct"`
	StockoutRiskPct      float64 `json:"stockout_risk_pct"`
	HighRiskSKUs         int     `json:"high_risk_skus"`
}

// Result is the outcome of SimulatePromo. An empty Rows slice means the
// filters matched no recent paid demand.
type Result struct {
	Params     Params     `json:"params"`
	Rows       []Row      `json:"rows"`
	Violations Violations `json:"violations"`
	KPIs       SimKPIs    `json:"kpis"`
}

// Demand is the paid quantity of one (product, store) pair in the baseline window.
type Demand struct {
	ProductID string `json:"product_id"`
	StoreID   string `json:"store_id"`
	Qty       int    `json:"qty"`
}

// Daily is the average daily quantity over the baseline window.
func (d Demand) Daily() float64 {
	return float64(d.Qty) / BaselineWindowDays
}

// BaselineDemand sums paid quantity per (product, store) over the trailing
// BaselineWindowDays ending at the latest order, after the dimension filters.
// The result is ordered by product then store.
func (s *Simulator) BaselineDemand(city, channel, category string) []Demand {
	if len(s.sales) == 0 {
		return nil
	}
	start := s.latestSale.Add(-BaselineWindowDays * 24 * time.Hour)
	f := Filter{City: city, Channel: channel, Category: category}

	totals := make(map[pairKey]int)
	for _, row := range s.sales {
		if !row.isPaid() || row.OrderAt.Before(start) || !f.Match(row) {
			continue
		}
		totals[pairKey{productID: row.ProductID, storeID: row.StoreID}] += row.Qty
	}

	out := make([]Demand, 0, len(totals))
	for key, qty := range totals {
		out = append(out, Demand{ProductID: key.productID, StoreID: key.storeID, Qty: qty})
	}
	slices.SortFunc(out, func(a, b Demand) int {
		if c := cmp.Compare(a.ProductID, b.ProductID); c != 0 {
			return c
		}
		return cmp.Compare(a.StoreID, b.StoreID)
	})
	return out
}

// SimulatePromo projects demand, revenue, margin, promo spend and stock
// coverage for a discount scenario and evaluates its constraints.
func (s *Simulator) SimulatePromo(p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	baseline := s.BaselineDemand(p.City, p.Channel, p.Category)
	rows := make([]Row, 0, len(baseline))
	uplift := BaseUplift(p.DiscountPct)

	for _, b := range baseline {
		product := s.products[b.ProductID]
		store := s.stores[b.StoreID]

		row := Row{
			ProductID:    b.ProductID,
			StoreID:      b.StoreID,
			City:         store.City,
			Channel:      store.Channel,
			Category:     product.Category,
			DailyDemand:  b.Daily(),
			UpliftFactor: uplift * ChannelMultiplier(store.Channel) * CategoryMultiplier(product.Category),
			BasePriceAED: product.BasePriceAED,
		}
		if product.UnitCostAED != nil {
			row.UnitCostAED = *product.UnitCostAED
		}
		row.SimulatedDailyDemand = row.DailyDemand * row.UpliftFactor
		row.SimulatedQty = int(math.RoundToEven(row.SimulatedDailyDemand * float64(p.SimulationDays)))

		qty := float64(row.SimulatedQty)
		row.DiscountedPrice = row.BasePriceAED * (1 - p.DiscountPct/100)
		row.SimulatedRevenue = qty * row.DiscountedPrice
		row.SimulatedCOGS = qty * row.UnitCostAED
		row.SimulatedMargin = row.SimulatedRevenue - row.SimulatedCOGS
		row.MarginPct = pct(row.SimulatedMargin, row.SimulatedRevenue)
		row.PromoSpend = qty * row.BasePriceAED * (p.DiscountPct / 100)

		row.StockOnHand = s.StockOnHand(row.ProductID, row.StoreID)
		row.StockoutRisk = row.SimulatedQty > row.StockOnHand
		row.StockShortfall = max(row.SimulatedQty-row.StockOnHand, 0)

		rows = append(rows, row)
	}

	violations, kpis := Evaluate(rows, p.PromoBudgetAED, p.MarginFloorPct)
	return Result{Params: p, Rows: rows, Violations: violations, KPIs: kpis}, nil
}

// Evaluate aggregates simulated rows and checks them against the budget and
// margin floor.
func Evaluate(rows []Row, budgetAED, marginFloorPct float64) (Violations, SimKPIs) {
	var spend, revenue, margin float64
	var risky int
	for _, row := range rows {
		spend += row.PromoSpend
		revenue += row.SimulatedRevenue
		margin += row.SimulatedMargin
		if row.StockoutRisk {
			risky++
		}
	}
	marginPct := pct(margin, revenue)

	v := Violations{
		BudgetExceeded:        spend > budgetAED,
		MarginBelowFloor:      marginPct < marginFloorPct,
		StockoutsExist:        risky > 0,
		BudgetUtilizationPct:  pct(spend, budgetAED),
		MarginGap:             max(marginFloorPct-marginPct, 0),
		TopBudgetContributors: topBudgetContributors(rows),
		TopMarginViolators:    topMarginViolators(rows, marginFloorPct),
		TopStockoutRisks:      topStockoutRisks(rows),
	}
	if len(rows) > 0 {
		v.StockoutRiskPct = float64(risky) / float64(len(rows)) * 100
	}

	k := SimKPIs{
		PromoSpend:           spend,
		SimulatedRevenue:     revenue,
		SimulatedMargin:      margin,
		SimulatedMarginPct:   marginPct,
		ProfitProxy:          margin,
		BudgetUtilizationPct: v.BudgetUtilizationPct,
		StockoutRiskPct:      v.StockoutRiskPct,
		HighRiskSKUs:         risky,
	}
	return v, k
}

// largest returns up to n rows ordered by key descending; ties keep input order.
func largest(rows []Row, n int, key func(Row) float64) []Row {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Row) int {
		return cmp.Compare(key(b), key(a))
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func topBudgetContributors(rows []Row) []BudgetContributor {
	top := largest(rows, topN, func(r Row) float64 { return r.PromoSpend })
	out := make([]BudgetContributor, 0, len(top))
	for _, r := range top {
		out = append(out, BudgetContributor{ProductID: r.ProductID, StoreID: r.StoreID, PromoSpend: r.PromoSpend})
	}
	return out
}

func topMarginViolators(rows []Row, floor float64) []MarginViolator {
	below := make([]Row, 0)
	for _, r := range rows {
		if r.MarginPct < floor {
			below = append(below, r)
		}
	}
	top := largest(below, topN, func(r Row) float64 { return r.SimulatedRevenue })
	out := make([]MarginViolator, 0, len(top))
	for _, r := range top {
		out = append(out, MarginViolator{
			ProductID:        r.ProductID,
			StoreID:          r.StoreID,
			MarginPct:        r.MarginPct,
			SimulatedRevenue: r.SimulatedRevenue,
		})
	}
	return out
}

func topStockoutRisks(rows []Row) []StockoutRisk {
	risky := make([]Row, 0)
	for _, r := range rows {
		if r.StockoutRisk {
			risky = append(risky, r)
		}
	}
	top := largest(risky, topN, func(r Row) float64 { return float64(r.StockShortfall) })
	out := make([]StockoutRisk, 0, len(top))
	for _, r := range top {
		out = append(out, StockoutRisk{
			ProductID:      r.ProductID,
			StoreID:        r.StoreID,
			SimulatedQty:   r.SimulatedQty,
			StockOnHand:    r.StockOnHand,
			StockShortfall: r.StockShortfall,
		})
	}
	return out
}
