package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/promopulse-backend/api/responses"
	"github.com/angelmondragon/promopulse-backend/internal/analytics"
	"github.com/angelmondragon/promopulse-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
	"github.com/angelmondragon/promopulse-backend/pkg/redis"
)

const (
	envHeader    = "X-PromoPulse-Env"
	readyTimeout = 2 * time.Second
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once a dataset is loaded and the optional cache
// answers a ping. cache may be nil when redis is not configured.
func HealthReady(cfg *config.Config, logg *logger.Logger, svc analytics.Service, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()

		if svc == nil || svc.Snapshot() == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dataset not loaded"))
			return
		}
		if cache != nil {
			pingCtx, cancel := context.WithTimeout(ctx, readyTimeout)
			defer cancel()
			if err := cache.Ping(pingCtx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable").
					WithDetails(map[string]any{"dependency": "redis"}))
				return
			}
		}

		snap := svc.Snapshot()
		responses.WriteSuccess(w, map[string]any{
			"status":          "ready",
			"dataset_version": snap.Version,
			"loaded_at":       snap.LoadedAt,
		})
	}
}
