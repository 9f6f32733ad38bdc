package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/angelmondragon/promopulse-backend/api/responses"
	"github.com/angelmondragon/promopulse-backend/api/validators"
	"github.com/angelmondragon/promopulse-backend/internal/analytics"
	"github.com/angelmondragon/promopulse-backend/internal/reports"
	"github.com/angelmondragon/promopulse-backend/internal/simulation"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
)

// simulateRequest carries optional overrides of the configured defaults.
type simulateRequest struct {
	City           string   `json:"city" validate:"omitempty,city"`
	Channel        string   `json:"channel" validate:"omitempty,channel"`
	Category       string   `json:"category" validate:"omitempty,category"`
	DiscountPct    *float64 `json:"discount_pct" validate:"omitempty,min=0,max=100"`
	PromoBudgetAED *float64 `json:"promo_budget_aed" validate:"omitempty,min=0"`
	MarginFloorPct *float64 `json:"margin_floor_pct" validate:"omitempty,min=0,max=100"`
	SimulationDays *int     `json:"simulation_days" validate:"omitempty,min=1,max=365"`
}

type scenariosRequest struct {
	simulateRequest
	Discounts []float64 `json:"discounts" validate:"omitempty,max=20,dive,min=0,max=100"`
}

func (req simulateRequest) params(defaults simulation.Params) simulation.Params {
	p := defaults
	if req.City != "" {
		p.City = req.City
	}
	if req.Channel != "" {
		p.Channel = req.Channel
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.DiscountPct != nil {
		p.DiscountPct = *req.DiscountPct
	}
	if req.PromoBudgetAED != nil {
		p.PromoBudgetAED = *req.PromoBudgetAED
	}
	if req.MarginFloorPct != nil {
		p.MarginFloorPct = *req.MarginFloorPct
	}
	if req.SimulationDays != nil {
		p.SimulationDays = *req.SimulationDays
	}
	return p
}

func Simulate(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req simulateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Simulate(ctx, req.params(svc.DefaultParams()))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessMeta(w, result, svc.Snapshot().Version, len(result.Rows))
	}
}

func SimulationScenarios(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req scenariosRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		comparison, err := svc.Scenarios(ctx, req.params(svc.DefaultParams()), req.Discounts)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessMeta(w, comparison, svc.Snapshot().Version, len(comparison.Scenarios))
	}
}

// SimulationExport runs a simulation and returns it as an Excel workbook.
func SimulationExport(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req simulateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Simulate(ctx, req.params(svc.DefaultParams()))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		book, err := reports.SimulationWorkbook(result)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filename := fmt.Sprintf("simulation_%s.xlsx", svc.Snapshot().Version)
		responses.WriteAttachment(ctx, logg, w, reports.ContentType, filename, func(out io.Writer) error {
			return reports.Write(out, book)
		})
	}
}
