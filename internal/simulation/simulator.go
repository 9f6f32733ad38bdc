// Package simulation computes KPIs and what-if promotion scenarios over a
// cleaned dataset.
package simulation

import (
	"time"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
)

// EnrichedSale is a sale joined with its product and store attributes. Join
// misses leave the product or store fields at their zero values.
type EnrichedSale struct {
	OrderID         string              `json:"order_id"`
	OrderAt         time.Time           `json:"order_time"`
	ProductID       string              `json:"product_id"`
	StoreID         string              `json:"store_id"`
	Qty             int                 `json:"qty"`
	SellingPriceAED float64             `json:"selling_price_aed"`
	DiscountPct     float64             `json:"discount_pct"`
	PaymentStatus   enums.PaymentStatus `json:"payment_status"`
	ReturnFlag      string              `json:"return_flag"`
	Category        string              `json:"category"`
	Brand           string              `json:"brand"`
	UnitCostAED     float64             `json:"unit_cost_aed"`
	City            string              `json:"city"`
	Channel         string              `json:"channel"`
	FulfillmentType string              `json:"fulfillment_type"`
}

// Revenue is qty × selling price.
func (e EnrichedSale) Revenue() float64 {
	return float64(e.Qty) * e.SellingPriceAED
}

// COGS is qty × unit cost.
func (e EnrichedSale) COGS() float64 {
	return float64(e.Qty) * e.UnitCostAED
}

// Margin is revenue minus COGS.
func (e EnrichedSale) Margin() float64 {
	return e.Revenue() - e.COGS()
}

func (e EnrichedSale) isPaid() bool {
	return e.PaymentStatus == enums.PaymentStatusPaid
}

type pairKey struct {
	productID string
	storeID   string
}

// Simulator owns the read-only enriched sales view of one dataset.
type Simulator struct {
	products   map[string]dataset.Product
	stores     map[string]dataset.Store
	sales      []EnrichedSale
	stock      map[pairKey]int
	latestSale time.Time
}

// New joins the clean tables into the enriched view. It fails with a
// CONTRACT_VIOLATION error when the tables break the clean-table contract:
// duplicate product or store keys, or unparseable order or snapshot dates.
func New(tables dataset.Tables) (*Simulator, error) {
	s := &Simulator{
		products: make(map[string]dataset.Product, len(tables.Products)),
		stores:   make(map[string]dataset.Store, len(tables.Stores)),
		stock:    make(map[pairKey]int, len(tables.Inventory)),
	}

	for _, p := range tables.Products {
		if _, dup := s.products[p.ProductID]; dup {
			return nil, pkgerrors.Newf(pkgerrors.CodeContract, "products: duplicate product_id %q", p.ProductID)
		}
		s.products[p.ProductID] = p
	}
	for _, st := range tables.Stores {
		if _, dup := s.stores[st.StoreID]; dup {
			return nil, pkgerrors.Newf(pkgerrors.CodeContract, "stores: duplicate store_id %q", st.StoreID)
		}
		s.stores[st.StoreID] = st
	}

	s.sales = make([]EnrichedSale, 0, len(tables.Sales))
	for _, sale := range tables.Sales {
		at, err := dataset.ParseOrderTime(sale.OrderTime)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeContract, err,
				"sales: order "+sale.OrderID+" has unparseable order_time")
		}
		row := EnrichedSale{
			OrderID:         sale.OrderID,
			OrderAt:         at,
			ProductID:       sale.ProductID,
			StoreID:         sale.StoreID,
			Qty:             sale.Qty,
			SellingPriceAED: sale.SellingPriceAED,
			DiscountPct:     sale.Discount(),
			PaymentStatus:   sale.Status(),
			ReturnFlag:      sale.ReturnFlag,
		}
		if p, ok := s.products[sale.ProductID]; ok {
			row.Category = p.Category
			row.Brand = p.Brand
			if p.UnitCostAED != nil {
				row.UnitCostAED = *p.UnitCostAED
			}
		}
		if st, ok := s.stores[sale.StoreID]; ok {
			row.City = st.City
			row.Channel = st.Channel
			row.FulfillmentType = st.FulfillmentType
		}
		if at.After(s.latestSale) {
			s.latestSale = at
		}
		s.sales = append(s.sales, row)
	}

	latestSnapshot := make(map[pairKey]time.Time, len(tables.Inventory))
	for _, inv := range tables.Inventory {
		date, err := dataset.ParseDate(inv.SnapshotDate)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeContract, err,
				"inventory: snapshot "+inv.RecordID()+" has unparseable snapshot_date")
		}
		key := pairKey{productID: inv.ProductID, storeID: inv.StoreID}
		if prev, seen := latestSnapshot[key]; seen && date.Before(prev) {
			continue
		}
		latestSnapshot[key] = date
		s.stock[key] = inv.StockOnHand
	}

	return s, nil
}

// Sales returns a copy of the enriched view.
func (s *Simulator) Sales() []EnrichedSale {
	return append([]EnrichedSale(nil), s.sales...)
}

// LatestOrderTime is the most recent order_time in the dataset.
func (s *Simulator) LatestOrderTime() time.Time {
	return s.latestSale
}

// KPIs computes the headline KPIs over the full enriched view.
func (s *Simulator) KPIs() KPIs {
	return ComputeKPIs(s.sales)
}

// StockOnHand returns the latest snapshot stock for a product in a store,
// or 0 when no snapshot exists.
func (s *Simulator) StockOnHand(productID, storeID string) int {
	return s.stock[pairKey{productID: productID, storeID: storeID}]
}
