package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pr-poehali-dev/anti-scam-database/pkg/auth"
	JSON "github.com/pr-poehali-dev/anti-scam-database/pkg/json-utilities"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/rest"
)

// RegisterHandlers gates every admin route behind a verified session whose account
// carries the stored privileged flag; no client asserted identity is trusted.
func RegisterHandlers(engine rest.Engine, adr AdminRepository, ar *auth.Repository, signer auth.Signer) {
	engine.Get("/admin/overview", getOverview(adr), auth.Admin(signer, ar))
	engine.Put("/admin/accounts/:id/creator", toggleCreator(adr), auth.Admin(signer, ar))
	engine.Put("/admin/abuse/:id/resolve", resolveAbuseReport(adr), auth.Admin(signer, ar))
}

// getOverview handles the GET "/admin/overview" route
func getOverview(adr AdminRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		accounts, err := adr.GetAccounts()
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		reports, err := adr.GetPendingAbuseReports()
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		JSON.Ok(writer, OverviewResponse{accounts, reports})
	}
}

// toggleCreator handles the PUT "/admin/accounts/:id/creator" route
func toggleCreator(adr AdminRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		accountId, err := strconv.ParseInt(rest.GetParam(request, "id"), 10, 64)
		if err != nil {
			JSON.BadRequestWithMessage(writer, "Account id must be numeric")
			return
		}

		if isCreator, err := adr.ToggleCreator(accountId); err == nil {
			JSON.Ok(writer, struct {
				Success   bool `json:"success"`
				IsCreator bool `json:"is_creator"`
			}{true, isCreator})
		} else if errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "User not found")
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// resolveAbuseReport handles the PUT "/admin/abuse/:id/resolve" route
func resolveAbuseReport(adr AdminRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		reportId, err := strconv.ParseInt(rest.GetParam(request, "id"), 10, 64)
		if err != nil {
			JSON.BadRequestWithMessage(writer, "Report id must be numeric")
			return
		}

		if err = adr.ResolveAbuseReport(reportId); err == nil {
			JSON.Ok(writer, struct {
				Success bool `json:"success"`
			}{true})
		} else if errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "Report not found")
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}
