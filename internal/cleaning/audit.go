package cleaning

import (
	"strconv"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
)

const auditSampleSize = 5

// Finding is the outcome of one validation rule over one table column.
type Finding struct {
	Table   string   `json:"table"`
	Field   string   `json:"field"`
	Checked int      `json:"checked"`
	Failed  int      `json:"failed"`
	Samples []string `json:"samples,omitempty"`
	// Reason is the first failure reason seen.
	Reason string `json:"reason,omitempty"`
}

// PassRate is the share of checked records that passed, in percent.
func (f Finding) PassRate() float64 {
	if f.Checked == 0 {
		return 100
	}
	return float64(f.Checked-f.Failed) / float64(f.Checked) * 100
}

type auditor struct {
	findings []Finding
}

func (a *auditor) check(table, field, recordID string, err error) {
	idx := -1
	for i := range a.findings {
		if a.findings[i].Table == table && a.findings[i].Field == field {
			idx = i
			break
		}
	}
	if idx < 0 {
		a.findings = append(a.findings, Finding{Table: table, Field: field})
		idx = len(a.findings) - 1
	}
	f := &a.findings[idx]
	f.Checked++
	if err == nil {
		return
	}
	f.Failed++
	if f.Reason == "" {
		f.Reason = err.Error()
	}
	if len(f.Samples) < auditSampleSize {
		f.Samples = append(f.Samples, recordID)
	}
}

// Audit runs every validation rule over the tables without modifying them
// and reports per-column failure counts, in table then field order.
func Audit(tables dataset.Tables) []Finding {
	a := &auditor{}

	for _, p := range tables.Products {
		a.check(dataset.TableProducts, "category", p.ProductID, ValidateCategory(p.Category))
		a.check(dataset.TableProducts, "base_price_aed", p.ProductID, ValidatePrice(FormatNumber(p.BasePriceAED)))
		a.check(dataset.TableProducts, "unit_cost_aed", p.ProductID,
			ValidateCostConstraint(FormatOptional(p.UnitCostAED), FormatNumber(p.BasePriceAED)))
	}

	for _, s := range tables.Stores {
		a.check(dataset.TableStores, "city", s.StoreID, ValidateCity(s.City))
		a.check(dataset.TableStores, "channel", s.StoreID, ValidateChannel(s.Channel))
		a.check(dataset.TableStores, "fulfillment_type", s.StoreID, ValidateFulfillmentType(s.FulfillmentType))
	}

	for _, s := range tables.Sales {
		a.check(dataset.TableSales, "order_time", s.OrderID, ValidateTimestamp(s.OrderTime))
		a.check(dataset.TableSales, "qty", s.OrderID, ValidateQuantity(strconv.Itoa(s.Qty)))
		a.check(dataset.TableSales, "selling_price_aed", s.OrderID, ValidatePrice(FormatNumber(s.SellingPriceAED)))
		a.check(dataset.TableSales, "payment_status", s.OrderID, ValidatePaymentStatus(s.PaymentStatus))
		if s.City != nil {
			a.check(dataset.TableSales, "city", s.OrderID, ValidateCity(*s.City))
		}
		if s.Category != nil {
			a.check(dataset.TableSales, "category", s.OrderID, ValidateCategory(*s.Category))
		}
	}

	for _, inv := range tables.Inventory {
		a.check(dataset.TableInventory, "stock_on_hand", inv.RecordID(), ValidateStock(strconv.Itoa(inv.StockOnHand)))
	}

	return a.findings
}
