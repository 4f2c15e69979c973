package admin_test

import (
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"github.com/pr-poehali-dev/anti-scam-database/pkg/admin"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/storage/sqlite"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/users"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConnection(t *testing.T) *sql.DB {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	storage, err := sqlite.New(logger, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })
	return storage.Connection
}

func register(t *testing.T, ur users.UserRepository, email string) users.Account {
	t.Helper()
	account, err := ur.Register(users.RegisterData{Email: email, Password: "p"})
	require.NoError(t, err)
	return account
}

func TestGetAccounts_ListsEveryRegistration(t *testing.T) {
	connection := newConnection(t)
	ur := users.NewRepository(connection)
	ar := admin.NewRepository(connection)

	first := register(t, ur, "first@x.com")
	second := register(t, ur, "second@x.com")

	accounts, err := ar.GetAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	listed := make(map[int64]admin.AccountOverview, 2)
	for _, account := range accounts {
		listed[account.Id] = account
	}
	assert.True(t, listed[first.Id].IsCreator)
	assert.False(t, listed[second.Id].IsCreator)
	assert.Equal(t, "second@x.com", listed[second.Id].Email)
}

func TestToggleCreator_FlipsAndReports(t *testing.T) {
	connection := newConnection(t)
	ur := users.NewRepository(connection)
	ar := admin.NewRepository(connection)

	register(t, ur, "first@x.com")
	account := register(t, ur, "second@x.com")

	isCreator, err := ar.ToggleCreator(account.Id)
	require.NoError(t, err)
	assert.True(t, isCreator)

	isCreator, err = ar.ToggleCreator(account.Id)
	require.NoError(t, err)
	assert.False(t, isCreator)
}

func TestToggleCreator_UnknownAccount(t *testing.T) {
	ar := admin.NewRepository(newConnection(t))

	_, err := ar.ToggleCreator(404)
	assert.ErrorIs(t, err, admin.ErrNotFound)
}

func TestAbuseReports_PendingUntilResolved(t *testing.T) {
	connection := newConnection(t)
	ur := users.NewRepository(connection)
	ar := admin.NewRepository(connection)

	reporter := register(t, ur, "reporter@x.com")
	reported := register(t, ur, "reported@x.com")
	require.NoError(t, ur.FileAbuseReport(reporter.Id, reported.Id, "spam invites"))

	pending, err := ar.GetPendingAbuseReports()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, reporter.Tag, pending[0].ReporterTag)
	assert.Equal(t, reported.Email, pending[0].ReportedEmail)
	assert.Equal(t, "pending", pending[0].Status)

	require.NoError(t, ar.ResolveAbuseReport(pending[0].Id))

	pending, err = ar.GetPendingAbuseReports()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestResolveAbuseReport_UnknownReport(t *testing.T) {
	ar := admin.NewRepository(newConnection(t))

	assert.ErrorIs(t, ar.ResolveAbuseReport(404), admin.ErrNotFound)
}
