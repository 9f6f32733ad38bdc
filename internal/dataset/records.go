// Package dataset holds the typed tables exchanged between the flat-file
// boundary, the cleaner and the simulator.
package dataset

import "github.com/angelmondragon/promopulse-backend/pkg/enums"

const (
	TableProducts  = "products"
	TableStores    = "stores"
	TableSales     = "sales"
	TableInventory = "inventory"
	TableCampaigns = "campaigns"
)

// Product is a catalogue row. UnitCostAED is nil when the source cell was empty.
type Product struct {
	ProductID    string
	Category     string
	Brand        string
	BasePriceAED float64
	UnitCostAED  *float64
	TaxRate      float64
	LaunchFlag   string
}

// Store is a selling location on one channel in one city.
type Store struct {
	StoreID         string
	City            string
	Channel         string
	FulfillmentType string
}

// Sale is one order line. OrderTime is kept as text until the cleaner has
// validated it; City and Category are only set when the source table carried
// those optional columns.
type Sale struct {
	OrderID         string
	OrderTime       string
	ProductID       string
	StoreID         string
	Qty             int
	SellingPriceAED float64
	DiscountPct     *float64
	PaymentStatus   string
	ReturnFlag      string
	City            *string
	Category        *string
}

// Revenue is qty × selling price.
func (s Sale) Revenue() float64 {
	return float64(s.Qty) * s.SellingPriceAED
}

// Discount returns the discount percentage, treating a missing value as 0.
func (s Sale) Discount() float64 {
	if s.DiscountPct == nil {
		return 0
	}
	return *s.DiscountPct
}

// IsReturned reports whether the line was flagged as returned.
func (s Sale) IsReturned() bool {
	return s.ReturnFlag == "Y"
}

// Status returns the payment status as an enum value.
func (s Sale) Status() enums.PaymentStatus {
	return enums.PaymentStatus(s.PaymentStatus)
}

// InventorySnapshot is the stock position of a product in a store on a date.
type InventorySnapshot struct {
	SnapshotDate string
	ProductID    string
	StoreID      string
	StockOnHand  int
	ReorderPoint int
	LeadTimeDays int
}

// RecordID identifies the snapshot in the issue log.
func (i InventorySnapshot) RecordID() string {
	return i.SnapshotDate + "_" + i.ProductID
}

// Issue is one entry of the cleaning log.
type Issue struct {
	Table            string            `json:"source_table"`
	RecordIdentifier string            `json:"record_identifier"`
	IssueType        enums.IssueType   `json:"issue_type"`
	IssueDetail      string            `json:"issue_detail"`
	ActionTaken      enums.ActionTaken `json:"action_taken"`
}

// Campaign is a planned promotion from the campaign plan table.
type Campaign struct {
	CampaignID     string  `json:"campaign_id"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	City           string  `json:"city"`
	Channel        string  `json:"channel"`
	Category       string  `json:"category"`
	DiscountPct    float64 `json:"discount_pct"`
	PromoBudgetAED float64 `json:"promo_budget_aed"`
}

// Tables bundles the four tables of a dataset.
type Tables struct {
	Products  []Product
	Stores    []Store
	Sales     []Sale
	Inventory []InventorySnapshot
}

// Clone returns a deep copy so callers never share row storage.
func (t Tables) Clone() Tables {
	return Tables{
		Products:  CloneProducts(t.Products),
		Stores:    append([]Store(nil), t.Stores...),
		Sales:     CloneSales(t.Sales),
		Inventory: append([]InventorySnapshot(nil), t.Inventory...),
	}
}

// CloneProducts deep-copies products including the optional unit cost.
func CloneProducts(in []Product) []Product {
	if in == nil {
		return nil
	}
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = p
		out[i].UnitCostAED = copyFloat(p.UnitCostAED)
	}
	return out
}

// CloneSales deep-copies sales including optional columns.
func CloneSales(in []Sale) []Sale {
	if in == nil {
		return nil
	}
	out := make([]Sale, len(in))
	for i, s := range in {
		out[i] = s
		out[i].DiscountPct = copyFloat(s.DiscountPct)
		out[i].City = copyString(s.City)
		out[i].Category = copyString(s.Category)
	}
	return out
}

// Float returns a pointer to v, for optional numeric cells.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to v, for optional text cells.
func String(v string) *string {
	return &v
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
