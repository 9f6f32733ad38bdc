package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/promopulse-backend/api/responses"
	"github.com/angelmondragon/promopulse-backend/internal/analytics"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
)

// CampaignEvaluations simulates every planned campaign. sort=profit orders
// the result by profit proxy; the default keeps plan order.
func CampaignEvaluations(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var byProfit bool
		switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort"))) {
		case "", "plan":
		case "profit":
			byProfit = true
		default:
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sort must be plan or profit").
				WithDetails(map[string]any{"field": "sort"}))
			return
		}

		evals, err := svc.CampaignEvaluations(ctx, byProfit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessMeta(w, evals, svc.Snapshot().Version, len(evals))
	}
}
