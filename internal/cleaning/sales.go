package cleaning

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
)

const maxDetailValue = 50

// CleanSales runs the sales passes in order: duplicate order ids, timestamps,
// missing discounts, quantity, price, city, payment status, category.
func (c *Cleaner) CleanSales(ctx context.Context, raw []dataset.Sale) Result[dataset.Sale] {
	journal := NewJournal(dataset.TableSales)
	rows := dataset.CloneSales(raw)

	rows = dropDuplicateOrders(rows, journal)
	rows = dropInvalidTimestamps(rows, journal)
	imputeDiscounts(rows, journal)
	rows = clampQuantities(rows, journal)
	rows = clampPrices(rows, journal)
	standardizeSaleCities(rows, journal)
	correctPaymentStatuses(rows, journal)
	correctSaleCategories(rows, journal)

	if rows == nil {
		rows = []dataset.Sale{}
	}
	return finish(ctx, c, journal, len(raw), rows)
}

// dropDuplicateOrders keeps, per order_id, the row with the latest parseable
// order_time. When no row in the group parses, the first row is kept.
func dropDuplicateOrders(rows []dataset.Sale, journal *Journal) []dataset.Sale {
	groups := make(map[string][]int, len(rows))
	order := make([]string, 0, len(rows))
	for i, row := range rows {
		if _, seen := groups[row.OrderID]; !seen {
			order = append(order, row.OrderID)
		}
		groups[row.OrderID] = append(groups[row.OrderID], i)
	}

	drop := make(map[int]bool)
	for _, orderID := range order {
		idx := groups[orderID]
		if len(idx) < 2 {
			continue
		}
		keep := idx[0]
		var latest time.Time
		found := false
		for _, i := range idx {
			ts, err := dataset.ParseOrderTime(rows[i].OrderTime)
			if err != nil {
				continue
			}
			if !found || ts.After(latest) {
				keep, latest, found = i, ts, true
			}
		}
		for _, i := range idx {
			if i == keep {
				continue
			}
			drop[i] = true
			journal.Record(orderID, enums.IssueDuplicateID, "Duplicate order_id - multiple transactions")
		}
	}
	if len(drop) == 0 {
		return rows
	}

	kept := rows[:0:0]
	for i, row := range rows {
		if !drop[i] {
			kept = append(kept, row)
		}
	}
	return kept
}

// dropInvalidTimestamps drops rows whose order_time does not parse and
// rewrites the rest in the canonical layout.
func dropInvalidTimestamps(rows []dataset.Sale, journal *Journal) []dataset.Sale {
	kept := rows[:0:0]
	for _, row := range rows {
		ts, err := dataset.ParseOrderTime(row.OrderTime)
		if err != nil {
			journal.Record(row.OrderID, enums.IssueInvalidTimestamp,
				fmt.Sprintf("Corrupted timestamp: %s", truncate(row.OrderTime, maxDetailValue)))
			continue
		}
		row.OrderTime = dataset.FormatOrderTime(ts)
		kept = append(kept, row)
	}
	return kept
}

func imputeDiscounts(rows []dataset.Sale, journal *Journal) {
	for i := range rows {
		if rows[i].DiscountPct != nil {
			continue
		}
		rows[i].DiscountPct = dataset.Float(0)
		journal.Record(rows[i].OrderID, enums.IssueMissingValue, "Missing discount_pct")
	}
}

func clampQuantities(rows []dataset.Sale, journal *Journal) []dataset.Sale {
	kept := rows[:0:0]
	for _, row := range rows {
		if ValidateQuantity(strconv.Itoa(row.Qty)) == nil {
			kept = append(kept, row)
			continue
		}
		if row.Qty < QuantityMin {
			journal.Record(row.OrderID, enums.IssueOutOfRange,
				fmt.Sprintf("Quantity %d below minimum %d", row.Qty, QuantityMin))
			continue
		}
		journal.Record(row.OrderID, enums.IssueOutlierValue,
			fmt.Sprintf("Quantity %d exceeds maximum %d", row.Qty, QuantityMax))
		row.Qty = QuantityMax
		kept = append(kept, row)
	}
	return kept
}

func clampPrices(rows []dataset.Sale, journal *Journal) []dataset.Sale {
	kept := rows[:0:0]
	for _, row := range rows {
		if ValidatePrice(FormatNumber(row.SellingPriceAED)) == nil {
			kept = append(kept, row)
			continue
		}
		if row.SellingPriceAED < PriceMin {
			journal.Record(row.OrderID, enums.IssueOutOfRange,
				fmt.Sprintf("Price %.2f AED below minimum %v", row.SellingPriceAED, PriceMin))
			continue
		}
		journal.Record(row.OrderID, enums.IssueOutlierValue,
			fmt.Sprintf("Price %.2f AED exceeds maximum %v", row.SellingPriceAED, PriceMax))
		row.SellingPriceAED = PriceMax
		kept = append(kept, row)
	}
	return kept
}

func standardizeSaleCities(rows []dataset.Sale, journal *Journal) {
	for i := range rows {
		if rows[i].City == nil {
			continue
		}
		fix, changed := standardizeCity(*rows[i].City)
		if !changed {
			continue
		}
		rows[i].City = dataset.String(fix.value)
		journal.Record(rows[i].OrderID, fix.issueType, fix.detail)
	}
}

func correctPaymentStatuses(rows []dataset.Sale, journal *Journal) {
	for i := range rows {
		status := rows[i].PaymentStatus
		if status == strings.TrimSpace(status) && ValidatePaymentStatus(status) == nil {
			continue
		}
		corrected := enums.PaymentStatusPaid.String()
		if parsed, err := enums.ParsePaymentStatus(status); err == nil {
			corrected = parsed.String()
		}
		journal.Record(rows[i].OrderID, enums.IssueInvalidValue,
			fmt.Sprintf("Invalid payment_status: %q -> %q", status, corrected))
		rows[i].PaymentStatus = corrected
	}
}

func correctSaleCategories(rows []dataset.Sale, journal *Journal) {
	for i := range rows {
		if rows[i].Category == nil {
			continue
		}
		fix, changed := standardizeCategory(*rows[i].Category)
		if !changed {
			continue
		}
		rows[i].Category = dataset.String(fix.value)
		journal.Record(rows[i].OrderID, fix.issueType, fix.detail)
	}
}

// truncate keeps at most n bytes of value without splitting a UTF-8 rune.
func truncate(value string, n int) string {
	if len(value) <= n {
		return value
	}
	for n > 0 && !utf8.RuneStart(value[n]) {
		n--
	}
	return value[:n]
}
