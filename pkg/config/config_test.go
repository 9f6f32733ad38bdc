package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Data.Source != DataSourceRaw {
		t.Fatalf("expected raw data source by default, got %q", cfg.Data.Source)
	}
	if cfg.Simulation.DefaultDays != 14 {
		t.Fatalf("expected 14 simulation days, got %d", cfg.Simulation.DefaultDays)
	}
	if got := len(cfg.Simulation.ScenarioDiscounts); got != 6 {
		t.Fatalf("expected 6 scenario discounts, got %d", got)
	}
	if cfg.Simulation.CacheTTL != 15*time.Minute {
		t.Fatalf("expected 15m cache ttl, got %v", cfg.Simulation.CacheTTL)
	}
	if cfg.Redis.Enabled() {
		t.Fatal("expected redis to be disabled without url or address")
	}
	if len(cfg.HTTP.CORSOrigins) != 1 || cfg.HTTP.SimulationRPS != 20 || cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected http defaults %+v", cfg.HTTP)
	}
	if cfg.Generator.Seed != 42 {
		t.Fatalf("expected generator seed 42, got %d", cfg.Generator.Seed)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvDataSource, "clean")
	t.Setenv(EnvCleanDir, "/tmp/clean")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvSimScenarioSteps, "5,10")
	t.Setenv(EnvCacheTTL, "1h")
	t.Setenv(EnvCORSOrigins, "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.Data.UseCleanFiles() {
		t.Fatal("expected clean data source")
	}
	if cfg.Data.CleanDir != "/tmp/clean" {
		t.Fatalf("unexpected clean dir %q", cfg.Data.CleanDir)
	}
	if !cfg.Redis.Enabled() {
		t.Fatal("expected redis to be enabled")
	}
	if len(cfg.Simulation.ScenarioDiscounts) != 2 || cfg.Simulation.ScenarioDiscounts[1] != 10 {
		t.Fatalf("unexpected scenario discounts %v", cfg.Simulation.ScenarioDiscounts)
	}
	if cfg.Simulation.CacheTTL != time.Hour {
		t.Fatalf("unexpected cache ttl %v", cfg.Simulation.CacheTTL)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 || cfg.HTTP.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins %v", cfg.HTTP.CORSOrigins)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv(EnvDataSource, "warehouse")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown data source to return an error")
	}

	t.Setenv(EnvDataSource, "raw")
	t.Setenv(EnvSimDays, "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected zero simulation days to return an error")
	}

	t.Setenv(EnvSimDays, "14")
	t.Setenv(EnvSimScenarioSteps, "10,150")
	if _, err := Load(); err == nil {
		t.Fatal("expected out of range scenario discount to return an error")
	}

	t.Setenv(EnvSimScenarioSteps, "10")
	t.Setenv(EnvSimulationRPS, "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected negative simulation rps to return an error")
	}

	t.Setenv(EnvSimulationRPS, "5")
	t.Setenv(EnvGeneratorOrders, "lots")
	if _, err := Load(); err == nil {
		t.Fatal("expected non-numeric generator orders to return an error")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
