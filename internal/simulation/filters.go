package simulation

import "time"

// AllValues is the filter sentinel meaning "do not filter on this dimension".
const AllValues = "All"

// Filter narrows the enriched view for dashboard queries. Empty or "All"
// dimensions are ignored. From and To are calendar days and both are
// inclusive, so From == To selects a single day; zero times leave that side of
// the window open.
type Filter struct {
	City     string
	Channel  string
	Category string
	Brand    string
	From     time.Time
	To       time.Time
}

func matches(want, got string) bool {
	return want == "" || want == AllValues || want == got
}

// Match reports whether row passes the filter.
func (f Filter) Match(row EnrichedSale) bool {
	if !matches(f.City, row.City) || !matches(f.Channel, row.Channel) ||
		!matches(f.Category, row.Category) || !matches(f.Brand, row.Brand) {
		return false
	}
	if !f.From.IsZero() && row.OrderAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !row.OrderAt.Before(dayAfter(f.To)) {
		return false
	}
	return true
}

// dayAfter returns midnight of the day following t.
func dayAfter(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// IsZero reports whether the filter selects every row.
func (f Filter) IsZero() bool {
	return matches(f.City, "") && matches(f.Channel, "") && matches(f.Category, "") &&
		matches(f.Brand, "") && f.From.IsZero() && f.To.IsZero()
}

// Filter returns the enriched rows matching f.
func (s *Simulator) Filter(f Filter) []EnrichedSale {
	if f.IsZero() {
		return s.Sales()
	}
	out := make([]EnrichedSale, 0)
	for _, row := range s.sales {
		if f.Match(row) {
			out = append(out, row)
		}
	}
	return out
}
