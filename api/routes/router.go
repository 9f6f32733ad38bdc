package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/promopulse-backend/api/controllers"
	"github.com/angelmondragon/promopulse-backend/api/middleware"
	"github.com/angelmondragon/promopulse-backend/internal/analytics"
	"github.com/angelmondragon/promopulse-backend/pkg/config"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
	"github.com/angelmondragon/promopulse-backend/pkg/metrics"
	"github.com/angelmondragon/promopulse-backend/pkg/redis"
)

// Deps are the collaborators the router wires into handlers. Cache and
// Gatherer are optional.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Analytics analytics.Service
	Cache     redis.Pinger
	Metrics   *metrics.PipelineMetrics
	Gatherer  prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg, logg, svc := deps.Config, deps.Logger, deps.Analytics

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, svc, deps.Cache))
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/kpis", controllers.DashboardKPIs(svc, logg))
		r.Get("/timeseries", controllers.TimeSeries(svc, logg))

		r.Route("/breakdowns", func(r chi.Router) {
			r.Get("/city-channel", controllers.CityChannelBreakdown(svc, logg))
			r.Get("/category", controllers.CategoryBreakdown(svc, logg))
		})

		r.Route("/simulations", func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.HTTP.SimulationRPS, cfg.HTTP.SimulationBurst, logg))
			r.Post("/", controllers.Simulate(svc, logg))
			r.Post("/scenarios", controllers.SimulationScenarios(svc, logg))
			r.Post("/export", controllers.SimulationExport(svc, logg))
		})

		r.Get("/campaigns/evaluations", controllers.CampaignEvaluations(svc, logg))

		r.Route("/quality", func(r chi.Router) {
			r.Get("/issues", controllers.QualityIssues(svc, logg))
			r.Get("/summary", controllers.QualitySummary(svc))
			r.Get("/report", controllers.QualityReport(svc, logg))
		})
	})

	return r
}
