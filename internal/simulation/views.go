package simulation

import (
	"cmp"
	"slices"
	"time"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
)

// CityChannelRevenue is paid revenue for one (city, channel) pair.
type CityChannelRevenue struct {
	City    string  `json:"city"`
	Channel string  `json:"channel"`
	Revenue float64 `json:"revenue"`
	Qty     int     `json:"qty"`
}

// CategoryMargin is paid revenue and margin for one category.
type CategoryMargin struct {
	Category  string  `json:"category"`
	Revenue   float64 `json:"revenue"`
	Margin    float64 `json:"margin"`
	Qty       int     `json:"qty"`
	MarginPct float64 `json:"margin_pct"`
}

// TimeSeriesPoint is paid revenue, margin and quantity for one bucket. Period
// is the bucket day, or for weekly buckets the Sunday the week ends on.
type TimeSeriesPoint struct {
	Period    string  `json:"period"`
	Revenue   float64 `json:"revenue"`
	Margin    float64 `json:"margin"`
	Qty       int     `json:"qty"`
	MarginPct float64 `json:"margin_pct"`
}

// CityChannelBreakdown groups paid revenue by city and channel. Sales whose
// store could not be joined are skipped.
func CityChannelBreakdown(rows []EnrichedSale) []CityChannelRevenue {
	type key struct{ city, channel string }
	groups := make(map[key]*CityChannelRevenue)
	for _, row := range rows {
		if !row.isPaid() || row.City == "" || row.Channel == "" {
			continue
		}
		k := key{row.City, row.Channel}
		g, ok := groups[k]
		if !ok {
			g = &CityChannelRevenue{City: row.City, Channel: row.Channel}
			groups[k] = g
		}
		g.Revenue += row.Revenue()
		g.Qty += row.Qty
	}

	out := make([]CityChannelRevenue, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b CityChannelRevenue) int {
		if c := cmp.Compare(a.City, b.City); c != 0 {
			return c
		}
		return cmp.Compare(a.Channel, b.Channel)
	})
	return out
}

// CategoryMargins groups paid revenue and margin by category.
func CategoryMargins(rows []EnrichedSale) []CategoryMargin {
	groups := make(map[string]*CategoryMargin)
	for _, row := range rows {
		if !row.isPaid() || row.Category == "" {
			continue
		}
		g, ok := groups[row.Category]
		if !ok {
			g = &CategoryMargin{Category: row.Category}
			groups[row.Category] = g
		}
		g.Revenue += row.Revenue()
		g.Margin += row.Margin()
		g.Qty += row.Qty
	}

	out := make([]CategoryMargin, 0, len(groups))
	for _, g := range groups {
		g.MarginPct = pct(g.Margin, g.Revenue)
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b CategoryMargin) int {
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// TimeSeries buckets paid sales daily or into weeks ending on Sunday. Buckets
// run contiguously from the first to the last sale, empty ones zero-filled.
func TimeSeries(rows []EnrichedSale, bucket enums.TimeBucket) []TimeSeriesPoint {
	step := 24 * time.Hour
	if bucket == enums.TimeBucketWeekly {
		step = 7 * 24 * time.Hour
	}

	totals := make(map[time.Time]*TimeSeriesPoint)
	var first, last time.Time
	for _, row := range rows {
		if !row.isPaid() {
			continue
		}
		b := bucketFor(row.OrderAt, bucket)
		p, ok := totals[b]
		if !ok {
			p = &TimeSeriesPoint{Period: b.Format(dataset.DateLayout)}
			totals[b] = p
		}
		p.Revenue += row.Revenue()
		p.Margin += row.Margin()
		p.Qty += row.Qty
		if first.IsZero() || b.Before(first) {
			first = b
		}
		if b.After(last) {
			last = b
		}
	}
	if len(totals) == 0 {
		return []TimeSeriesPoint{}
	}

	out := make([]TimeSeriesPoint, 0, int(last.Sub(first)/step)+1)
	for b := first; !b.After(last); b = b.Add(step) {
		p, ok := totals[b]
		if !ok {
			out = append(out, TimeSeriesPoint{Period: b.Format(dataset.DateLayout)})
			continue
		}
		p.MarginPct = pct(p.Margin, p.Revenue)
		out = append(out, *p)
	}
	return out
}

// bucketFor truncates ts to its UTC day, or for weekly buckets moves it to the
// Sunday ending its week.
func bucketFor(ts time.Time, bucket enums.TimeBucket) time.Time {
	y, m, d := ts.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if bucket != enums.TimeBucketWeekly {
		return day
	}
	offset := (7 - int(day.Weekday())) % 7
	return day.AddDate(0, 0, offset)
}

// CityChannelBreakdown over the full enriched view.
func (s *Simulator) CityChannelBreakdown() []CityChannelRevenue {
	return CityChannelBreakdown(s.sales)
}

// CategoryMargins over the full enriched view.
func (s *Simulator) CategoryMargins() []CategoryMargin {
	return CategoryMargins(s.sales)
}

// TimeSeries over the full enriched view.
func (s *Simulator) TimeSeries(bucket enums.TimeBucket) []TimeSeriesPoint {
	return TimeSeries(s.sales, bucket)
}
