package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const accountKey contextKey = "account"

// Auth ensures that requests carry a valid session token, and attaches the verified account to the request context.
func Auth(signer Signer, ar *Repository) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, request *http.Request) {

			account, err := authenticate(signer, ar, request)
			if err != nil {
				reportUnauthorised(w)
				return
			}

			// create a new context, stemming from the original one, adding the verified account for future reference
			next.ServeHTTP(w, request.WithContext(context.WithValue(request.Context(), accountKey, account)))
		})
	}
}

// Admin acts as Auth, but additionally requires the stored privileged flag;
// authorisation stems from the account row, not from anything the caller asserts.
func Admin(signer Signer, ar *Repository) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, request *http.Request) {

			account, err := authenticate(signer, ar, request)
			if err != nil {
				reportUnauthorised(w)
				return
			}

			if !account.IsCreator {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(struct {
					Error string `json:"error"`
				}{"Insufficient privileges"})
				return
			}

			next.ServeHTTP(w, request.WithContext(context.WithValue(request.Context(), accountKey, account)))
		})
	}
}

func authenticate(signer Signer, ar *Repository, request *http.Request) (Account, error) {
	tokenString, err := parseBearer(request)
	if err != nil {
		return Account{}, err
	}

	accountId, err := signer.parse(tokenString)
	if err != nil {
		return Account{}, err
	}

	// verify the account still exists and fetch its current privileges
	return ar.GetAccountById(accountId)
}

// parseBearer extracts the session token from the authorization header.
func parseBearer(request *http.Request) (string, error) {
	var header = request.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return header[7:], nil
	}
	return "", errors.New("bad authorization header")
}

// MustGetAccount returns the verified account attached by the Auth middleware and panics in its absence,
// which signals a route registered without the required middleware.
func MustGetAccount(request *http.Request) Account {
	var account = request.Context().Value(accountKey)
	if account == nil {
		panic("missing account in request context; Auth middleware not applied")
	}
	return account.(Account)
}

func reportUnauthorised(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{"Invalid credentials"})
}
