package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xuri/excelize/v2"

	"github.com/angelmondragon/promopulse-backend/internal/analytics"
	"github.com/angelmondragon/promopulse-backend/internal/cleaning"
	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/internal/reports"
	"github.com/angelmondragon/promopulse-backend/pkg/config"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
	"github.com/angelmondragon/promopulse-backend/pkg/metrics"
	"github.com/angelmondragon/promopulse-backend/pkg/redis"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Simulation: config.SimulationConfig{
			DefaultDiscountPct:    20,
			DefaultBudgetAED:      5000,
			DefaultMarginFloorPct: 10,
			DefaultDays:           14,
			ScenarioDiscounts:     []float64{10, 20, 30},
			CacheTTL:              time.Minute,
		},
	}
}

func testTables() dataset.Tables {
	tables := dataset.Tables{
		Products: []dataset.Product{
			{ProductID: "P1", Category: "Electronics", Brand: "Sony", BasePriceAED: 100, UnitCostAED: dataset.Float(60)},
			{ProductID: "P2", Category: "Beauty", Brand: "Lulu", BasePriceAED: 40, UnitCostAED: dataset.Float(10)},
		},
		Stores: []dataset.Store{
			{StoreID: "S1", City: "Dubai", Channel: "App", FulfillmentType: "Own"},
			{StoreID: "S2", City: "Abu Dhabi", Channel: "Marketplace", FulfillmentType: "3PL"},
		},
		Inventory: []dataset.InventorySnapshot{
			{SnapshotDate: "2025-01-14", ProductID: "P1", StoreID: "S1", StockOnHand: 3},
			{SnapshotDate: "2025-01-14", ProductID: "P2", StoreID: "S2", StockOnHand: 300},
		},
	}
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for day := 0; day < 14; day++ {
		at := dataset.FormatOrderTime(start.AddDate(0, 0, day))
		tables.Sales = append(tables.Sales,
			dataset.Sale{OrderID: fmt.Sprintf("X%02d", day), OrderTime: at, ProductID: "P1", StoreID: "S1", Qty: 1, SellingPriceAED: 100, DiscountPct: dataset.Float(5), PaymentStatus: "Paid", ReturnFlag: "N"},
			dataset.Sale{OrderID: fmt.Sprintf("Y%02d", day), OrderTime: at, ProductID: "P2", StoreID: "S2", Qty: 3, SellingPriceAED: 40, DiscountPct: dataset.Float(0), PaymentStatus: "Paid", ReturnFlag: "N"},
		)
	}
	tables.Sales = append(tables.Sales, dataset.Sale{
		OrderID: "Z00", OrderTime: "99/99/9999", ProductID: "P1", StoreID: "S1", Qty: 1, SellingPriceAED: 100, DiscountPct: dataset.Float(0), PaymentStatus: "Paid", ReturnFlag: "N",
	})
	return tables
}

func newTestRouter(t *testing.T, cache redis.Pinger) (http.Handler, analytics.Service) {
	t.Helper()
	return newTestRouterWithConfig(t, testConfig(), cache)
}

func newTestRouterWithConfig(t *testing.T, cfg *config.Config, cache redis.Pinger) (http.Handler, analytics.Service) {
	t.Helper()
	logg := logger.Nop()
	snap, err := analytics.FromRaw(context.Background(), cleaning.New(), testTables(), []dataset.Campaign{
		{CampaignID: "C1", StartDate: "2025-01-15", EndDate: "2025-01-22", City: "All", Channel: "All", Category: "All", DiscountPct: 15, PromoBudgetAED: 2000},
	})
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	reg := prometheus.NewRegistry()
	m := metrics.NewPipelineMetrics(reg)
	svc, err := analytics.NewService(snap, cfg.Simulation, nil, m, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return NewRouter(Deps{Config: cfg, Logger: logg, Analytics: svc, Cache: cache, Metrics: m, Gatherer: reg}), svc
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *struct {
		DatasetVersion string `json:"dataset_version"`
		Count          *int   `json:"count"`
	} `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestHealthRoutes(t *testing.T) {
	h, _ := newTestRouter(t, stubPinger{})

	rec := do(t, h, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for live, got %d", rec.Code)
	}
	if rec.Header().Get("X-PromoPulse-Env") != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-PromoPulse-Env"))
	}
	if rec := do(t, h, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ready, got %d", rec.Code)
	}

	down, _ := newTestRouter(t, stubPinger{err: errors.New("dial tcp: refused")})
	rec = do(t, down, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when redis is down, got %d", rec.Code)
	}
	if env := decode(t, rec); env.Error == nil || env.Error.Code != "DEPENDENCY_ERROR" {
		t.Fatalf("unexpected error payload %+v", env.Error)
	}
}

func TestKPIsRoute(t *testing.T) {
	h, svc := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/kpis?city=Dubai", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	if env.Meta == nil || env.Meta.DatasetVersion != svc.Snapshot().Version {
		t.Fatalf("expected dataset version in meta, got %+v", env.Meta)
	}
	var kpis struct {
		GrossRevenue      float64 `json:"gross_revenue"`
		TotalTransactions int     `json:"total_transactions"`
	}
	if err := json.Unmarshal(env.Data, &kpis); err != nil {
		t.Fatalf("decode kpis: %v", err)
	}
	if kpis.GrossRevenue != 1400 || kpis.TotalTransactions != 14 {
		t.Fatalf("unexpected Dubai kpis %+v", kpis)
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/kpis?city=Paris", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown city, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/kpis?from=2025-01-10&to=2025-01-05", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted window, got %d", rec.Code)
	}
}

func TestKPIsDateWindowIncludesLastDay(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	transactions := func(target string) int {
		t.Helper()
		rec := do(t, h, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", target, rec.Code, rec.Body.String())
		}
		var kpis struct {
			TotalTransactions int `json:"total_transactions"`
		}
		if err := json.Unmarshal(decode(t, rec).Data, &kpis); err != nil {
			t.Fatalf("decode kpis: %v", err)
		}
		return kpis.TotalTransactions
	}

	if got := transactions("/api/v1/kpis?from=2025-01-05&to=2025-01-05"); got != 2 {
		t.Fatalf("expected the single-day window to hold 2 transactions, got %d", got)
	}
	if got := transactions("/api/v1/kpis?from=2025-01-01&to=2025-01-14"); got != 28 {
		t.Fatalf("expected the full window including 2025-01-14 to hold 28 transactions, got %d", got)
	}
	if got := transactions("/api/v1/kpis?to=2025-01-01"); got != 2 {
		t.Fatalf("expected an open start up to the first day to hold 2 transactions, got %d", got)
	}
}

func TestBreakdownAndTimeSeriesRoutes(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	env := decode(t, do(t, h, http.MethodGet, "/api/v1/breakdowns/city-channel", ""))
	if env.Meta == nil || env.Meta.Count == nil || *env.Meta.Count != 2 {
		t.Fatalf("expected 2 city/channel rows, got %+v", env.Meta)
	}
	env = decode(t, do(t, h, http.MethodGet, "/api/v1/breakdowns/category?category=Beauty", ""))
	if env.Meta.Count == nil || *env.Meta.Count != 1 {
		t.Fatalf("expected 1 category row, got %+v", env.Meta)
	}

	env = decode(t, do(t, h, http.MethodGet, "/api/v1/timeseries?freq=D", ""))
	if *env.Meta.Count != 14 {
		t.Fatalf("expected 14 daily points, got %d", *env.Meta.Count)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/timeseries?freq=M", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown freq, got %d", rec.Code)
	}
}

func TestSimulationRoutes(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/simulations", `{"discount_pct": 25, "simulation_days": 7}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	var result struct {
		Params struct {
			DiscountPct    float64 `json:"discount_pct"`
			SimulationDays int     `json:"simulation_days"`
			PromoBudgetAED float64 `json:"promo_budget_aed"`
		} `json:"params"`
		Rows []json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode simulation: %v", err)
	}
	if result.Params.DiscountPct != 25 || result.Params.SimulationDays != 7 || result.Params.PromoBudgetAED != 5000 {
		t.Fatalf("expected overrides merged with defaults, got %+v", result.Params)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}

	rec = do(t, h, http.MethodPost, "/api/v1/simulations", `{"discount_pct": 150}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for discount above 100, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/api/v1/simulations", `{"city": "Paris"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown city, got %d", rec.Code)
	}

	env = decode(t, do(t, h, http.MethodPost, "/api/v1/simulations/scenarios", `{"discounts": [10, 20]}`))
	if env.Meta == nil || *env.Meta.Count != 2 {
		t.Fatalf("expected 2 scenarios, got %+v", env.Meta)
	}
}

func TestSimulationExportRoute(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/simulations/export", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != reports.ContentType {
		t.Fatalf("unexpected content type %q", got)
	}
	book, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer book.Close()
	rows, err := book.GetRows(reports.SheetRows)
	if err != nil {
		t.Fatalf("read rows sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
}

func TestCampaignAndQualityRoutes(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	env := decode(t, do(t, h, http.MethodGet, "/api/v1/campaigns/evaluations?sort=profit", ""))
	if env.Meta == nil || *env.Meta.Count != 1 {
		t.Fatalf("expected 1 campaign evaluation, got %+v", env.Meta)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/campaigns/evaluations?sort=name", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sort, got %d", rec.Code)
	}

	env = decode(t, do(t, h, http.MethodGet, "/api/v1/quality/issues?issue_type=invalid_timestamp", ""))
	if env.Meta == nil || *env.Meta.Count != 1 {
		t.Fatalf("expected 1 timestamp issue, got %+v", env.Meta)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/quality/issues?issue_type=TYPO", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown issue type, got %d", rec.Code)
	}

	env = decode(t, do(t, h, http.MethodGet, "/api/v1/quality/summary", ""))
	var summary struct {
		TotalIssues int `json:"total_issues"`
		Summaries   []struct {
			Table string `json:"table"`
		} `json:"summaries"`
	}
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalIssues != 1 || len(summary.Summaries) != 4 {
		t.Fatalf("unexpected quality summary %+v", summary)
	}

	rec := do(t, h, http.MethodGet, "/api/v1/quality/report", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != reports.ContentType {
		t.Fatalf("expected workbook download, got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestMetricsRoute(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	do(t, h, http.MethodGet, "/api/v1/kpis", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `http_requests_total{method="GET",route="/api/v1/kpis",status="200"} 1`) {
		t.Fatalf("expected request counter in exposition, got %s", rec.Body.String())
	}
}

func TestSimulationRoutesAreThrottled(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP = config.HTTPConfig{CORSOrigins: []string{"http://dash.local"}, SimulationRPS: 0.001, SimulationBurst: 1}
	h, _ := newTestRouterWithConfig(t, cfg, nil)

	if rec := do(t, h, http.MethodPost, "/api/v1/simulations", `{}`); rec.Code != http.StatusOK {
		t.Fatalf("expected first simulation to pass, got %d: %s", rec.Code, rec.Body.String())
	}
	rec := do(t, h, http.MethodPost, "/api/v1/simulations", `{}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if env := decode(t, rec); env.Error == nil || env.Error.Code != "RATE_LIMITED" {
		t.Fatalf("unexpected error envelope %+v", env.Error)
	}

	for range 3 {
		if rec := do(t, h, http.MethodGet, "/api/v1/kpis", ""); rec.Code != http.StatusOK {
			t.Fatalf("expected dashboard routes to stay unthrottled, got %d", rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/simulations", nil)
	req.Header.Set("Origin", "http://dash.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	pre := httptest.NewRecorder()
	h.ServeHTTP(pre, req)
	if got := pre.Header().Get("Access-Control-Allow-Origin"); got != "http://dash.local" {
		t.Fatalf("expected preflight to allow dashboard origin, got %q", got)
	}
}
