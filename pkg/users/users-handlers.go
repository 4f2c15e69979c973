package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pr-poehali-dev/anti-scam-database/pkg/auth"
	JSON "github.com/pr-poehali-dev/anti-scam-database/pkg/json-utilities"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, ur UserRepository, ar *auth.Repository, signer auth.Signer) {
	engine.Post("/accounts", register(ur, signer))
	engine.Post("/sessions", login(ur, signer))

	engine.Get("/profile", getProfile(ur))
	engine.Put("/profile/avatar", updateAvatar(ur), auth.Auth(signer, ar))

	engine.Post("/abuse", fileAbuseReport(ur), auth.Auth(signer, ar))
}

// register handles the POST "/accounts" route
func register(ur UserRepository, signer auth.Signer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[RegisterData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		account, err := ur.Register(data)
		if errors.Is(err, ErrEmailTaken) {
			JSON.BadRequestWithMessage(writer, "Email is already registered")
			return
		}
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		token, err := signer.Sign(account.Id)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		JSON.Created(writer, SessionResponse{account, token})
	}
}

// login handles the POST "/sessions" route
func login(ur UserRepository, signer auth.Signer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[LoginData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		// a single error covers unknown emails and wrong passwords alike
		account, err := ur.Login(data)
		if errors.Is(err, ErrInvalidCredentials) {
			JSON.Unauthorised(writer, "Invalid credentials")
			return
		}
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		token, err := signer.Sign(account.Id)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		JSON.Ok(writer, SessionResponse{account, token})
	}
}

// getProfile handles the unauthenticated GET "/profile?user_id=" route
func getProfile(ur UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var param = request.URL.Query().Get("user_id")
		if param == "" {
			JSON.BadRequestWithMessage(writer, "user_id required")
			return
		}

		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			JSON.BadRequestWithMessage(writer, "user_id must be numeric")
			return
		}

		account, err := ur.GetAccountById(id)
		if errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "User not found")
			return
		}
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		JSON.Ok(writer, account)
	}
}

// updateAvatar handles the PUT "/profile/avatar" route
func updateAvatar(ur UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var account = auth.MustGetAccount(request)

		data, err := JSON.DecodeValidate[UpdateAvatarData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		updated, err := ur.SetAvatar(account.Id, data.AvatarUrl)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		JSON.Ok(writer, updated)
	}
}

// fileAbuseReport handles the POST "/abuse" route
func fileAbuseReport(ur UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var reporter = auth.MustGetAccount(request)

		data, err := JSON.DecodeValidate[AbuseReportData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if data.ReportedId == reporter.Id {
			JSON.BadRequestWithMessage(writer, "Can't report oneself")
			return
		}

		if err = ur.FileAbuseReport(reporter.Id, data.ReportedId, data.Reason); err == nil {
			JSON.Created(writer, struct {
				Success bool `json:"success"`
			}{true})
		} else if errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "User not found")
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}
