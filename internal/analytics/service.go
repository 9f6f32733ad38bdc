// Package analytics serves dashboard views, promotion simulations and data
// quality results over a loaded dataset snapshot.
package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/promopulse-backend/internal/cleaning"
	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/internal/simulation"
	"github.com/angelmondragon/promopulse-backend/pkg/config"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
	"github.com/angelmondragon/promopulse-backend/pkg/metrics"
	"github.com/angelmondragon/promopulse-backend/pkg/redis"
)

const (
	kindSimulation = "simulation"
	kindScenarios  = "scenarios"
	kindCampaigns  = "campaigns"
)

// Service provides read-only analytics over the current snapshot.
type Service interface {
	Snapshot() *Snapshot
	// DefaultParams returns the configured simulation defaults.
	DefaultParams() simulation.Params
	KPIs(ctx context.Context, f simulation.Filter) simulation.KPIs
	CityChannel(ctx context.Context, f simulation.Filter) []simulation.CityChannelRevenue
	CategoryMargins(ctx context.Context, f simulation.Filter) []simulation.CategoryMargin
	TimeSeries(ctx context.Context, f simulation.Filter, bucket enums.TimeBucket) []simulation.TimeSeriesPoint
	Simulate(ctx context.Context, p simulation.Params) (simulation.Result, error)
	Scenarios(ctx context.Context, base simulation.Params, discounts []float64) (ScenarioComparison, error)
	CampaignEvaluations(ctx context.Context, byProfit bool) ([]simulation.CampaignEvaluation, error)
	Issues(ctx context.Context, q IssueQuery) []dataset.Issue
	Quality(ctx context.Context) QualitySummary
}

// ScenarioComparison lists every simulated discount level and the best valid one.
type ScenarioComparison struct {
	Scenarios []simulation.Scenario `json:"scenarios"`
	Best      *simulation.Scenario  `json:"best,omitempty"`
}

// IssueQuery filters the issue log. Empty fields match everything; a
// non-positive Limit returns every match.
type IssueQuery struct {
	Table     string
	IssueType string
	Limit     int
}

// QualitySummary aggregates the cleaning outcome of the snapshot.
type QualitySummary struct {
	DatasetVersion string             `json:"dataset_version"`
	Summaries      []cleaning.Summary `json:"summaries"`
	TotalIssues    int                `json:"total_issues"`
	IssuesByType   map[string]int     `json:"issues_by_type"`
	IssuesByTable  map[string]int     `json:"issues_by_table"`
	Findings       []cleaning.Finding `json:"findings"`
}

type service struct {
	snap    *Snapshot
	cfg     config.SimulationConfig
	cache   redis.Cache
	metrics *metrics.PipelineMetrics
	logg    *logger.Logger
}

// NewService builds the analytics service. cache and m may be nil.
func NewService(snap *Snapshot, cfg config.SimulationConfig, cache redis.Cache, m *metrics.PipelineMetrics, logg *logger.Logger) (Service, error) {
	if snap == nil || snap.Simulator() == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "dataset snapshot required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{snap: snap, cfg: cfg, cache: cache, metrics: m, logg: logg}, nil
}

func (s *service) Snapshot() *Snapshot {
	return s.snap
}

func (s *service) DefaultParams() simulation.Params {
	return simulation.Params{
		City:           simulation.AllValues,
		Channel:        simulation.AllValues,
		Category:       simulation.AllValues,
		DiscountPct:    s.cfg.DefaultDiscountPct,
		PromoBudgetAED: s.cfg.DefaultBudgetAED,
		MarginFloorPct: s.cfg.DefaultMarginFloorPct,
		SimulationDays: s.cfg.DefaultDays,
	}
}

func (s *service) KPIs(_ context.Context, f simulation.Filter) simulation.KPIs {
	if f.IsZero() {
		return s.snap.Simulator().KPIs()
	}
	return simulation.ComputeKPIs(s.snap.Simulator().Filter(f))
}

func (s *service) CityChannel(_ context.Context, f simulation.Filter) []simulation.CityChannelRevenue {
	return simulation.CityChannelBreakdown(s.snap.Simulator().Filter(f))
}

func (s *service) CategoryMargins(_ context.Context, f simulation.Filter) []simulation.CategoryMargin {
	return simulation.CategoryMargins(s.snap.Simulator().Filter(f))
}

func (s *service) TimeSeries(_ context.Context, f simulation.Filter, bucket enums.TimeBucket) []simulation.TimeSeriesPoint {
	return simulation.TimeSeries(s.snap.Simulator().Filter(f), bucket)
}

func (s *service) Simulate(ctx context.Context, p simulation.Params) (simulation.Result, error) {
	if err := p.Validate(); err != nil {
		return simulation.Result{}, err
	}
	var key string
	if d := digest(p); s.cache != nil && d != "" {
		key = s.cache.SimulationKey(s.snap.Version, d)
	}
	return memoize(ctx, s, kindSimulation, key, func() (simulation.Result, error) {
		return s.snap.Simulator().SimulatePromo(p)
	})
}

func (s *service) Scenarios(ctx context.Context, base simulation.Params, discounts []float64) (ScenarioComparison, error) {
	if len(discounts) == 0 {
		discounts = s.cfg.ScenarioDiscounts
	}
	for _, d := range discounts {
		candidate := base
		candidate.DiscountPct = d
		if err := candidate.Validate(); err != nil {
			return ScenarioComparison{}, err
		}
	}
	var key string
	d := digest(struct {
		Base      simulation.Params `json:"base"`
		Discounts []float64         `json:"discounts"`
	}{base, discounts})
	if s.cache != nil && d != "" {
		key = s.cache.ScenarioKey(s.snap.Version, d)
	}
	return memoize(ctx, s, kindScenarios, key, func() (ScenarioComparison, error) {
		scenarios, err := s.snap.Simulator().CompareScenarios(base, discounts)
		if err != nil {
			return ScenarioComparison{}, err
		}
		out := ScenarioComparison{Scenarios: scenarios}
		if best, ok := simulation.BestScenario(scenarios); ok {
			out.Best = &best
		}
		return out, nil
	})
}

func (s *service) CampaignEvaluations(ctx context.Context, byProfit bool) ([]simulation.CampaignEvaluation, error) {
	if len(s.snap.Campaigns) == 0 {
		return []simulation.CampaignEvaluation{}, nil
	}
	evals, err := memoize(ctx, s, kindCampaigns, "", func() ([]simulation.CampaignEvaluation, error) {
		return s.snap.Simulator().EvaluateCampaigns(s.snap.Campaigns, s.cfg.DefaultMarginFloorPct), nil
	})
	if err != nil {
		return nil, err
	}
	if byProfit {
		return simulation.SortedByProfit(evals), nil
	}
	return evals, nil
}

func (s *service) Issues(_ context.Context, q IssueQuery) []dataset.Issue {
	out := make([]dataset.Issue, 0)
	for _, issue := range s.snap.Report.Issues {
		if q.Table != "" && issue.Table != q.Table {
			continue
		}
		if q.IssueType != "" && issue.IssueType.String() != q.IssueType {
			continue
		}
		out = append(out, issue)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}

func (s *service) Quality(_ context.Context) QualitySummary {
	summary := QualitySummary{
		DatasetVersion: s.snap.Version,
		Summaries:      s.snap.Report.Summaries,
		TotalIssues:    len(s.snap.Report.Issues),
		IssuesByType:   map[string]int{},
		IssuesByTable:  map[string]int{},
		Findings:       s.snap.Findings,
	}
	if summary.Summaries == nil {
		summary.Summaries = []cleaning.Summary{}
	}
	for issueType, n := range cleaning.CountByType(s.snap.Report.Issues) {
		summary.IssuesByType[issueType.String()] = n
	}
	summary.IssuesByTable = cleaning.CountByTable(s.snap.Report.Issues)
	return summary
}

// memoize returns the cached value at key when present, otherwise computes
// and stores it. An empty key bypasses the cache. Cache failures are logged
// and never fail the request.
func memoize[T any](ctx context.Context, s *service, kind, key string, compute func() (T, error)) (T, error) {
	start := time.Now()
	ctx = s.logg.WithField(s.logg.WithDataset(ctx, s.snap.Version), "kind", kind)

	if key != "" {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var cached T
			uerr := json.Unmarshal([]byte(raw), &cached)
			if uerr == nil {
				s.metrics.IncCache(metrics.CacheHit)
				s.logg.Debug(s.logg.WithField(ctx, "cache", metrics.CacheHit), "simulation.cache")
				return cached, nil
			}
			s.metrics.IncCache(metrics.CacheError)
			s.logg.Warn(s.logg.WithField(ctx, "error", uerr.Error()), "simulation.cache.decode_failed")
			if derr := s.cache.Del(ctx, key); derr != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", derr.Error()), "simulation.cache.evict_failed")
			}
		case redis.IsMiss(err):
			s.metrics.IncCache(metrics.CacheMiss)
		default:
			s.metrics.IncCache(metrics.CacheError)
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "simulation.cache.get_failed")
		}
	}

	value, err := compute()
	if err != nil {
		return value, err
	}
	elapsed := time.Since(start)
	s.metrics.ObserveSimulation(kind, elapsed)
	s.logg.Info(s.logg.WithField(ctx, "duration_ms", elapsed.Milliseconds()), "simulation.complete")

	if key != "" {
		payload, merr := json.Marshal(value)
		if merr == nil {
			merr = s.cache.Set(ctx, key, payload, s.cfg.CacheTTL)
		}
		if merr != nil {
			s.metrics.IncCache(metrics.CacheError)
			s.logg.Warn(s.logg.WithField(ctx, "error", merr.Error()), "simulation.cache.set_failed")
		}
	}
	return value, nil
}

// digest is a stable name-based UUID of v's JSON form, or "" when v does
// not encode.
func digest(v any) string {
	payload, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, payload).String()
}
