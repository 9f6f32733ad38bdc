package simulation

import "github.com/angelmondragon/promopulse-backend/pkg/enums"

// KPIs are the headline business metrics of a set of sales.
type KPIs struct {
	GrossRevenue          float64 `json:"gross_revenue"`
	RefundAmount          float64 `json:"refund_amount"`
	NetRevenue            float64 `json:"net_revenue"`
	COGS                  float64 `json:"cogs"`
	GrossMarginAED        float64 `json:"gross_margin_aed"`
	GrossMarginPct        float64 `json:"gross_margin_pct"`
	AvgDiscountPct        float64 `json:"avg_discount_pct"`
	ReturnRatePct         float64 `json:"return_rate_pct"`
	PaymentFailureRatePct float64 `json:"payment_failure_rate_pct"`
	TotalTransactions     int     `json:"total_transactions"`
	PaidTransactions      int     `json:"paid_transactions"`
}

// ComputeKPIs aggregates rows. It never fails; every ratio is 0 when its
// denominator is not positive.
func ComputeKPIs(rows []EnrichedSale) KPIs {
	var k KPIs
	var discountSum float64
	var returns, failures int

	for _, row := range rows {
		discountSum += row.DiscountPct
		if row.ReturnFlag == "Y" {
			returns++
		}
		switch row.PaymentStatus {
		case enums.PaymentStatusPaid:
			k.PaidTransactions++
			k.GrossRevenue += row.Revenue()
			k.COGS += row.COGS()
		case enums.PaymentStatusRefunded:
			k.RefundAmount += row.Revenue()
		case enums.PaymentStatusFailed:
			failures++
		}
	}

	k.TotalTransactions = len(rows)
	k.NetRevenue = k.GrossRevenue - k.RefundAmount
	k.GrossMarginAED = k.NetRevenue - k.COGS
	k.GrossMarginPct = pct(k.GrossMarginAED, k.NetRevenue)
	if n := len(rows); n > 0 {
		k.AvgDiscountPct = discountSum / float64(n)
		k.ReturnRatePct = float64(returns) / float64(n) * 100
		k.PaymentFailureRatePct = float64(failures) / float64(n) * 100
	}
	return k
}

// pct returns part/whole × 100, or 0 when whole is not positive.
func pct(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
