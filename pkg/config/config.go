package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PROMOPULSE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv           = "PROMOPULSE_APP_ENV"
	EnvPort             = "PROMOPULSE_APP_PORT"
	EnvLogLevel         = "PROMOPULSE_LOG_LEVEL"
	EnvLogFormat        = "PROMOPULSE_LOG_FORMAT"
	EnvDataSource       = "PROMOPULSE_DATA_SOURCE"
	EnvRawDir           = "PROMOPULSE_DATA_RAW_DIR"
	EnvCleanDir         = "PROMOPULSE_DATA_CLEAN_DIR"
	EnvReportPath       = "PROMOPULSE_DATA_REPORT_PATH"
	EnvSimDays          = "PROMOPULSE_SIM_DEFAULT_DAYS"
	EnvSimScenarioSteps = "PROMOPULSE_SIM_SCENARIO_DISCOUNTS"
	EnvRedisURL         = "PROMOPULSE_REDIS_URL"
	EnvRedisAddr        = "PROMOPULSE_REDIS_ADDR"
	EnvCacheTTL         = "PROMOPULSE_SIM_CACHE_TTL"
	EnvGeneratorSeed    = "PROMOPULSE_GENERATOR_SEED"
	EnvGeneratorOrders  = "PROMOPULSE_GENERATOR_ORDERS"
	EnvCORSOrigins      = "PROMOPULSE_HTTP_CORS_ORIGINS"
	EnvSimulationRPS    = "PROMOPULSE_HTTP_SIMULATION_RPS"

	DataSourceRaw   = "raw"
	DataSourceClean = "clean"
)

type Config struct {
	App        AppConfig
	Data       DataConfig
	Simulation SimulationConfig
	HTTP       HTTPConfig
	Redis      RedisConfig
	Metrics    MetricsConfig
	Generator  GeneratorConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Data.Source)) {
	case DataSourceRaw, DataSourceClean:
	default:
		return fmt.Errorf("%s must be %q or %q", EnvDataSource, DataSourceRaw, DataSourceClean)
	}
	if c.Simulation.DefaultDays < 1 {
		return fmt.Errorf("%s must be at least 1", EnvSimDays)
	}
	if len(c.Simulation.ScenarioDiscounts) == 0 {
		return fmt.Errorf("%s must list at least one discount", EnvSimScenarioSteps)
	}
	if c.HTTP.SimulationRPS < 0 || c.HTTP.SimulationBurst < 0 {
		return fmt.Errorf("%s and its burst must not be negative", EnvSimulationRPS)
	}
	for _, d := range c.Simulation.ScenarioDiscounts {
		if d < 0 || d > 100 {
			return fmt.Errorf("%s values must be within [0, 100], got %v", EnvSimScenarioSteps, d)
		}
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"PROMOPULSE_APP_ENV" default:"dev"`
	Port         string `envconfig:"PROMOPULSE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PROMOPULSE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"PROMOPULSE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"PROMOPULSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DataConfig locates the flat files the binaries read and write.
type DataConfig struct {
	// Source selects what cmd/api loads at startup: raw files (cleaned in
	// memory) or previously cleaned files plus issues.csv.
	Source     string `envconfig:"PROMOPULSE_DATA_SOURCE" default:"raw"`
	RawDir     string `envconfig:"PROMOPULSE_DATA_RAW_DIR" default:"data/raw"`
	CleanDir   string `envconfig:"PROMOPULSE_DATA_CLEAN_DIR" default:"data/clean"`
	ReportPath string `envconfig:"PROMOPULSE_DATA_REPORT_PATH" default:"data/clean/quality_report.xlsx"`
}

// UseCleanFiles reports whether startup should skip the cleaning pass.
func (d DataConfig) UseCleanFiles() bool {
	return strings.EqualFold(strings.TrimSpace(d.Source), DataSourceClean)
}

type SimulationConfig struct {
	DefaultDiscountPct    float64       `envconfig:"PROMOPULSE_SIM_DEFAULT_DISCOUNT_PCT" default:"20"`
	DefaultBudgetAED      float64       `envconfig:"PROMOPULSE_SIM_DEFAULT_BUDGET_AED" default:"50000"`
	DefaultMarginFloorPct float64       `envconfig:"PROMOPULSE_SIM_DEFAULT_MARGIN_FLOOR_PCT" default:"10"`
	DefaultDays           int           `envconfig:"PROMOPULSE_SIM_DEFAULT_DAYS" default:"14"`
	ScenarioDiscounts     []float64     `envconfig:"PROMOPULSE_SIM_SCENARIO_DISCOUNTS" default:"10,15,20,25,30,35"`
	CacheTTL              time.Duration `envconfig:"PROMOPULSE_SIM_CACHE_TTL" default:"15m"`
}

// HTTPConfig governs the browser-facing surface of cmd/api. A zero
// SimulationRPS disables throttling of the simulation routes.
type HTTPConfig struct {
	CORSOrigins     []string      `envconfig:"PROMOPULSE_HTTP_CORS_ORIGINS" default:"http://localhost:3000"`
	SimulationRPS   float64       `envconfig:"PROMOPULSE_HTTP_SIMULATION_RPS" default:"20"`
	SimulationBurst int           `envconfig:"PROMOPULSE_HTTP_SIMULATION_BURST" default:"40"`
	ShutdownTimeout time.Duration `envconfig:"PROMOPULSE_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// RedisConfig is optional; an empty URL and address disables the simulation cache.
type RedisConfig struct {
	URL          string        `envconfig:"PROMOPULSE_REDIS_URL"`
	Address      string        `envconfig:"PROMOPULSE_REDIS_ADDR"`
	Password     string        `envconfig:"PROMOPULSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PROMOPULSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PROMOPULSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PROMOPULSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PROMOPULSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PROMOPULSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PROMOPULSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"PROMOPULSE_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"PROMOPULSE_METRICS_PATH" default:"/metrics"`
}

type GeneratorConfig struct {
	Seed          uint64 `envconfig:"PROMOPULSE_GENERATOR_SEED" default:"42"`
	Products      int    `envconfig:"PROMOPULSE_GENERATOR_PRODUCTS" default:"300"`
	Orders        int    `envconfig:"PROMOPULSE_GENERATOR_ORDERS" default:"32500"`
	InventoryDays int    `envconfig:"PROMOPULSE_GENERATOR_INVENTORY_DAYS" default:"30"`
}
