package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/angelmondragon/promopulse-backend/api/responses"
	"github.com/angelmondragon/promopulse-backend/api/validators"
	"github.com/angelmondragon/promopulse-backend/internal/analytics"
	"github.com/angelmondragon/promopulse-backend/internal/reports"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
)

const (
	defaultIssueLimit = 500
	maxIssueLimit     = 100000
)

func QualityIssues(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := r.URL.Query()

		limit, err := validators.ParseQueryInt(r, "limit", defaultIssueLimit, 1, maxIssueLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		issueType := strings.ToUpper(strings.TrimSpace(query.Get("issue_type")))
		if issueType != "" && !enums.IssueType(issueType).IsValid() {
			responses.WriteError(ctx, logg, w, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown issue_type %q", issueType).
				WithDetails(map[string]any{"field": "issue_type"}))
			return
		}

		issues := svc.Issues(ctx, analytics.IssueQuery{
			Table:     strings.ToLower(strings.TrimSpace(query.Get("table"))),
			IssueType: issueType,
			Limit:     limit,
		})
		responses.WriteSuccessMeta(w, issues, svc.Snapshot().Version, len(issues))
	}
}

func QualitySummary(svc analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Quality(r.Context()))
	}
}

// QualityReport downloads the cleaning summaries, issue log and rule audit
// as an Excel workbook.
func QualityReport(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		snap := svc.Snapshot()
		book, err := reports.QualityWorkbook(snap.Report, snap.Findings)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filename := fmt.Sprintf("quality_%s.xlsx", snap.Version)
		responses.WriteAttachment(ctx, logg, w, reports.ContentType, filename, func(out io.Writer) error {
			return reports.Write(out, book)
		})
	}
}
