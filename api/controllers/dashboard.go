package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/promopulse-backend/api/responses"
	"github.com/angelmondragon/promopulse-backend/internal/analytics"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
)

func DashboardKPIs(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		f, err := parseFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessMeta(w, svc.KPIs(ctx, f), svc.Snapshot().Version, -1)
	}
}

func CityChannelBreakdown(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		f, err := parseFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rows := svc.CityChannel(ctx, f)
		responses.WriteSuccessMeta(w, rows, svc.Snapshot().Version, len(rows))
	}
}

func CategoryBreakdown(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		f, err := parseFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rows := svc.CategoryMargins(ctx, f)
		responses.WriteSuccessMeta(w, rows, svc.Snapshot().Version, len(rows))
	}
}

// TimeSeries serves revenue and margin per period. freq is D (default) or W.
func TimeSeries(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		f, err := parseFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		bucket, err := enums.ParseTimeBucket(strings.TrimSpace(r.URL.Query().Get("freq")))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "freq must be D or W").
				WithDetails(map[string]any{"field": "freq"}))
			return
		}
		points := svc.TimeSeries(ctx, f, bucket)
		responses.WriteSuccessMeta(w, points, svc.Snapshot().Version, len(points))
	}
}
