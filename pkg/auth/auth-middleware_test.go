package auth_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/pr-poehali-dev/anti-scam-database/pkg/auth"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/storage/sqlite"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/users"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type middlewareFixture struct {
	signer       auth.Signer
	repository   *auth.Repository
	creator      users.Account
	regular      users.Account
	creatorToken string
	regularToken string
}

func newMiddlewareFixture(t *testing.T) middlewareFixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	storage, err := sqlite.New(logger, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	ur := users.NewRepository(storage.Connection)
	creator, err := ur.Register(users.RegisterData{Email: "first@x.com", Password: "p"})
	require.NoError(t, err)
	regular, err := ur.Register(users.RegisterData{Email: "second@x.com", Password: "p"})
	require.NoError(t, err)

	signer := auth.NewSigner("test-secret", time.Hour)
	creatorToken, err := signer.Sign(creator.Id)
	require.NoError(t, err)
	regularToken, err := signer.Sign(regular.Id)
	require.NoError(t, err)

	return middlewareFixture{signer, auth.NewRepository(storage.Connection), creator, regular, creatorToken, regularToken}
}

func serve(handler http.Handler, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestAuth_RejectsMissingAndBogusTokens(t *testing.T) {
	fixture := newMiddlewareFixture(t)
	handler := auth.Auth(fixture.signer, fixture.repository)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without valid credentials")
	}))

	response := serve(handler, "")
	assert.Equal(t, http.StatusUnauthorized, response.Code)
	assert.Equal(t, "Bearer", response.Header().Get("WWW-Authenticate"))

	response = serve(handler, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, response.Code)
}

func TestAuth_RejectsForeignSignature(t *testing.T) {
	fixture := newMiddlewareFixture(t)
	forged, err := auth.NewSigner("other-secret", time.Hour).Sign(fixture.regular.Id)
	require.NoError(t, err)

	handler := auth.Auth(fixture.signer, fixture.repository)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a forged token")
	}))

	response := serve(handler, forged)
	assert.Equal(t, http.StatusUnauthorized, response.Code)
}

func TestAuth_AttachesVerifiedAccount(t *testing.T) {
	fixture := newMiddlewareFixture(t)
	handler := auth.Auth(fixture.signer, fixture.repository)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := auth.MustGetAccount(r)
		assert.Equal(t, fixture.regular.Id, account.Id)
		assert.False(t, account.IsCreator)
		w.WriteHeader(http.StatusNoContent)
	}))

	response := serve(handler, fixture.regularToken)
	assert.Equal(t, http.StatusNoContent, response.Code)
}

func TestAdmin_RequiresStoredPrivilege(t *testing.T) {
	fixture := newMiddlewareFixture(t)
	handler := auth.Admin(fixture.signer, fixture.repository)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := auth.MustGetAccount(r)
		assert.True(t, account.IsCreator)
		w.WriteHeader(http.StatusNoContent)
	}))

	// a valid session alone does not grant access; the stored privileged flag decides
	response := serve(handler, fixture.regularToken)
	assert.Equal(t, http.StatusForbidden, response.Code)

	response = serve(handler, fixture.creatorToken)
	assert.Equal(t, http.StatusNoContent, response.Code)
}
