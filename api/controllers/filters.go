package controllers

import (
	"net/http"

	"github.com/angelmondragon/promopulse-backend/api/validators"
	"github.com/angelmondragon/promopulse-backend/internal/simulation"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
)

func isCity(s string) bool     { return enums.City(s).IsValid() }
func isChannel(s string) bool  { return enums.Channel(s).IsValid() }
func isCategory(s string) bool { return enums.Category(s).IsValid() }

// parseFilter reads the dashboard filters: city, channel, category, brand and
// the inclusive [from, to] date window.
func parseFilter(r *http.Request) (simulation.Filter, error) {
	var f simulation.Filter
	var err error
	if f.City, err = validators.ParseQueryDimension(r, "city", isCity); err != nil {
		return f, err
	}
	if f.Channel, err = validators.ParseQueryDimension(r, "channel", isChannel); err != nil {
		return f, err
	}
	if f.Category, err = validators.ParseQueryDimension(r, "category", isCategory); err != nil {
		return f, err
	}
	if f.Brand, err = validators.ParseQueryDimension(r, "brand", nil); err != nil {
		return f, err
	}
	if f.From, err = validators.ParseQueryDate(r, "from"); err != nil {
		return f, err
	}
	if f.To, err = validators.ParseQueryDate(r, "to"); err != nil {
		return f, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, pkgerrors.New(pkgerrors.CodeValidation, "from must not be after to")
	}
	return f, nil
}
