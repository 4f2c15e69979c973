package reports

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pr-poehali-dev/anti-scam-database/pkg/auth"
	JSON "github.com/pr-poehali-dev/anti-scam-database/pkg/json-utilities"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, rr ReportRepository, ar *auth.Repository, signer auth.Signer) {
	engine.Post("/reports", submitReport(rr), auth.Auth(signer, ar))
	engine.Get("/reports", searchReports(rr))
	engine.Put("/reports/:id/rating", rateReport(rr), auth.Auth(signer, ar))
}

// submitReport handles the POST "/reports" route
func submitReport(rr ReportRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var reporter = auth.MustGetAccount(request)

		// evidence is mandatory; validation rejects its absence before any write occurs
		data, err := JSON.DecodeValidate[SubmitReportData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if err = rr.Submit(data, reporter.Id); err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		JSON.Ok(writer, struct {
			Success bool `json:"success"`
		}{true})
	}
}

// searchReports handles the public GET "/reports?username=" route
func searchReports(rr ReportRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var username = request.URL.Query().Get("username")
		if username == "" {
			JSON.BadRequestWithMessage(writer, "Username required")
			return
		}

		if results, err := rr.Search(username); err == nil {
			JSON.Ok(writer, struct {
				Results []ReportResponse `json:"results"`
			}{results})
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// rateReport handles the PUT "/reports/:id/rating" route
func rateReport(rr ReportRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var rater = auth.MustGetAccount(request)

		reportId, err := strconv.ParseInt(rest.GetParam(request, "id"), 10, 64)
		if err != nil {
			JSON.BadRequestWithMessage(writer, "Report id must be numeric")
			return
		}

		data, err := JSON.DecodeValidate[RateData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		counts, err := rr.Rate(reportId, rater.Id, data.Rating)
		switch {
		case err == nil:
			JSON.Ok(writer, struct {
				Success bool `json:"success"`
				RatingCounts
			}{true, counts})
		case errors.Is(err, ErrAlreadyRated):
			// a repeat of the same rating succeeds without mutating anything
			JSON.Ok(writer, struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
				RatingCounts
			}{true, "Already rated", counts})
		case errors.Is(err, ErrNotFound):
			JSON.NotFound(writer, "Report not found")
		default:
			JSON.InternalServerError(writer, err)
		}
	}
}
