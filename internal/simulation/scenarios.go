package simulation

import (
	"math"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
)

// DefaultScenarioDiscounts are the discount levels compared when none are given.
var DefaultScenarioDiscounts = []float64{10, 15, 20, 25, 30, 35}

const (
	ScenarioValid    = "Valid"
	ScenarioViolated = "Violated"
)

// Scenario is one discount level of a scenario comparison.
type Scenario struct {
	DiscountPct      float64 `json:"discount_pct"`
	KPIs             SimKPIs `json:"kpis"`
	BudgetExceeded   bool    `json:"budget_exceeded"`
	MarginBelowFloor bool    `json:"margin_below_floor"`
	StockoutsExist   bool    `json:"stockouts_exist"`
	Status           string  `json:"status"`
}

// CompareScenarios simulates base at each discount level. A scenario is
// Violated when it breaks the budget or the margin floor. Levels run
// concurrently; results keep the order of discounts.
func (s *Simulator) CompareScenarios(base Params, discounts []float64) ([]Scenario, error) {
	if len(discounts) == 0 {
		discounts = DefaultScenarioDiscounts
	}
	out := make([]Scenario, len(discounts))
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, d := range discounts {
		group.Go(func() error {
			p := base
			p.DiscountPct = d
			res, err := s.SimulatePromo(p)
			if err != nil {
				return err
			}
			status := ScenarioValid
			if res.Violations.Any() {
				status = ScenarioViolated
			}
			out[i] = Scenario{
				DiscountPct:      d,
				KPIs:             res.KPIs,
				BudgetExceeded:   res.Violations.BudgetExceeded,
				MarginBelowFloor: res.Violations.MarginBelowFloor,
				StockoutsExist:   res.Violations.StockoutsExist,
				Status:           status,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// BestScenario returns the valid scenario with the highest profit proxy.
func BestScenario(scenarios []Scenario) (Scenario, bool) {
	best := -1
	for i, sc := range scenarios {
		if sc.Status != ScenarioValid {
			continue
		}
		if best < 0 || sc.KPIs.ProfitProxy > scenarios[best].KPIs.ProfitProxy {
			best = i
		}
	}
	if best < 0 {
		return Scenario{}, false
	}
	return scenarios[best], true
}

// CampaignInvalid marks a campaign that could not be simulated, for example
// one whose end date is not after its start date.
const CampaignInvalid = "Invalid"

// CampaignEvaluation is a planned campaign simulated over its own duration.
type CampaignEvaluation struct {
	Campaign   dataset.Campaign `json:"campaign"`
	Days       int              `json:"days"`
	KPIs       SimKPIs          `json:"kpis"`
	Violations Violations       `json:"violations"`
	Status     string           `json:"status"`
	Error      string           `json:"error,omitempty"`
}

// CampaignDays is end − start in whole days.
func CampaignDays(c dataset.Campaign) (int, error) {
	start, err := dataset.ParseDate(c.StartDate)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "campaign "+c.CampaignID+" has invalid start_date")
	}
	end, err := dataset.ParseDate(c.EndDate)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "campaign "+c.CampaignID+" has invalid end_date")
	}
	return int(math.Round(end.Sub(start).Hours() / 24)), nil
}

// EvaluateCampaigns simulates each campaign with simulation_days = end − start
// against marginFloorPct. Results keep the plan order. A campaign with bad
// dates or parameters is reported as CampaignInvalid instead of failing the
// whole plan.
func (s *Simulator) EvaluateCampaigns(campaigns []dataset.Campaign, marginFloorPct float64) []CampaignEvaluation {
	out := make([]CampaignEvaluation, 0, len(campaigns))
	for _, c := range campaigns {
		eval := CampaignEvaluation{Campaign: c, Status: CampaignInvalid}
		days, err := CampaignDays(c)
		if err != nil {
			eval.Error = err.Error()
			out = append(out, eval)
			continue
		}
		eval.Days = days
		res, err := s.SimulatePromo(Params{
			City:           c.City,
			Channel:        c.Channel,
			Category:       c.Category,
			DiscountPct:    c.DiscountPct,
			PromoBudgetAED: c.PromoBudgetAED,
			MarginFloorPct: marginFloorPct,
			SimulationDays: days,
		})
		if err != nil {
			eval.Error = "campaign " + c.CampaignID + ": " + err.Error()
			out = append(out, eval)
			continue
		}
		eval.KPIs = res.KPIs
		eval.Violations = res.Violations
		eval.Status = ScenarioValid
		if res.Violations.Any() {
			eval.Status = ScenarioViolated
		}
		out = append(out, eval)
	}
	return out
}

// SortedByProfit returns evaluations ordered by profit proxy, highest first,
// with invalid campaigns last.
func SortedByProfit(evals []CampaignEvaluation) []CampaignEvaluation {
	out := slices.Clone(evals)
	slices.SortStableFunc(out, func(a, b CampaignEvaluation) int {
		aInvalid, bInvalid := a.Status == CampaignInvalid, b.Status == CampaignInvalid
		switch {
		case aInvalid != bInvalid:
			if aInvalid {
				return 1
			}
			return -1
		case a.KPIs.ProfitProxy > b.KPIs.ProfitProxy:
			return -1
		case a.KPIs.ProfitProxy < b.KPIs.ProfitProxy:
			return 1
		}
		return 0
	})
	return out
}
