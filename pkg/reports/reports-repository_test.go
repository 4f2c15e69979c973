package reports_test

import (
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"github.com/pr-poehali-dev/anti-scam-database/pkg/reports"
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

func registerAccounts(t *testing.T, connection *sql.DB, emails ...string) []users.Account {
	t.Helper()
	ur := users.NewRepository(connection)
	var accounts []users.Account
	for _, email := range emails {
		account, err := ur.Register(users.RegisterData{Email: email, Password: "p"})
		require.NoError(t, err)
		accounts = append(accounts, account)
	}
	return accounts
}

// requireConsistentCounters asserts the core invariant: a report's cached counters
// always equal the aggregate counts derived from its rating rows.
func requireConsistentCounters(t *testing.T, connection *sql.DB, reportId int64) {
	t.Helper()
	var likes, dislikes, actualLikes, actualDislikes int
	require.NoError(t, connection.QueryRow(
		"SELECT likes, dislikes FROM scam_reports WHERE id = ?", reportId,
	).Scan(&likes, &dislikes))
	require.NoError(t, connection.QueryRow(
		"SELECT count(*) FROM report_ratings WHERE report = ? AND rating = 'like'", reportId,
	).Scan(&actualLikes))
	require.NoError(t, connection.QueryRow(
		"SELECT count(*) FROM report_ratings WHERE report = ? AND rating = 'dislike'", reportId,
	).Scan(&actualDislikes))
	require.Equal(t, actualLikes, likes, "cached likes drifted from the rating rows")
	require.Equal(t, actualDislikes, dislikes, "cached dislikes drifted from the rating rows")
}

func TestSubmit_ConsolidatesByUsername(t *testing.T) {
	connection := newConnection(t)
	accounts := registerAccounts(t, connection, "a@x.com", "b@x.com")
	rr := reports.NewRepository(connection)

	require.NoError(t, rr.Submit(reports.SubmitReportData{
		Username:    "shady_dealer",
		IsScammer:   true,
		Description: "took payment, vanished",
		EvidenceUrl: "https://example.com/proof-1",
	}, accounts[0].Id))

	results, err := rr.Search("shady")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ReportCount)
	assert.True(t, results[0].IsScammer)

	// a repeat submission for the same username updates the single row
	require.NoError(t, rr.Submit(reports.SubmitReportData{
		Username:    "shady_dealer",
		IsScammer:   false,
		Description: "possibly a misunderstanding",
		EvidenceUrl: "https://example.com/proof-2",
	}, accounts[1].Id))

	results, err = rr.Search("shady")
	require.NoError(t, err)
	require.Len(t, results, 1, "repeat submissions must never create a second report row")
	assert.Equal(t, 2, results[0].ReportCount)
	assert.False(t, results[0].IsScammer)
	assert.Equal(t, "https://example.com/proof-2", results[0].EvidenceUrl)

	// every submission, first or repeat, appends one evidence record
	var evidenceCount int
	require.NoError(t, connection.QueryRow(
		"SELECT count(*) FROM report_evidence WHERE report = ?", results[0].Id,
	).Scan(&evidenceCount))
	assert.Equal(t, 2, evidenceCount)
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	connection := newConnection(t)
	accounts := registerAccounts(t, connection, "a@x.com")
	rr := reports.NewRepository(connection)

	for _, username := range []string{"CryptoKing", "cryptoqueen", "honest_seller"} {
		require.NoError(t, rr.Submit(reports.SubmitReportData{
			Username:    username,
			EvidenceUrl: "https://example.com/e",
		}, accounts[0].Id))
	}

	results, err := rr.Search("CRYPTO")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = rr.Search("zzz")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRate_ToggleStateMachine(t *testing.T) {
	connection := newConnection(t)
	accounts := registerAccounts(t, connection, "rater@x.com")
	rr := reports.NewRepository(connection)

	require.NoError(t, rr.Submit(reports.SubmitReportData{
		Username:    "target",
		EvidenceUrl: "https://example.com/e",
	}, accounts[0].Id))
	results, err := rr.Search("target")
	require.NoError(t, err)
	reportId := results[0].Id

	// no prior rating: the requested counter gains one
	counts, err := rr.Rate(reportId, accounts[0].Id, reports.Like)
	require.NoError(t, err)
	assert.Equal(t, reports.RatingCounts{Likes: 1, Dislikes: 0}, counts)
	requireConsistentCounters(t, connection, reportId)

	// a differing rating flips the row and both counters
	counts, err = rr.Rate(reportId, accounts[0].Id, reports.Dislike)
	require.NoError(t, err)
	assert.Equal(t, reports.RatingCounts{Likes: 0, Dislikes: 1}, counts)
	requireConsistentCounters(t, connection, reportId)

	// a repeat of the same rating mutates nothing
	counts, err = rr.Rate(reportId, accounts[0].Id, reports.Dislike)
	assert.ErrorIs(t, err, reports.ErrAlreadyRated)
	assert.Equal(t, reports.RatingCounts{Likes: 0, Dislikes: 1}, counts)
	requireConsistentCounters(t, connection, reportId)
}

func TestRate_RepeatedTogglingNeverDrifts(t *testing.T) {
	connection := newConnection(t)
	accounts := registerAccounts(t, connection, "a@x.com", "b@x.com", "c@x.com")
	rr := reports.NewRepository(connection)

	require.NoError(t, rr.Submit(reports.SubmitReportData{
		Username:    "target",
		EvidenceUrl: "https://example.com/e",
	}, accounts[0].Id))
	results, err := rr.Search("target")
	require.NoError(t, err)
	reportId := results[0].Id

	// every rater flips back and forth; the sum must always equal the number of distinct raters
	var sequence = []reports.RatingType{reports.Like, reports.Dislike, reports.Like, reports.Like, reports.Dislike}
	for _, account := range accounts {
		for _, rating := range sequence {
			if _, err := rr.Rate(reportId, account.Id, rating); err != nil {
				require.ErrorIs(t, err, reports.ErrAlreadyRated)
			}
			requireConsistentCounters(t, connection, reportId)
		}
	}

	counts, err := rr.Rate(reportId, accounts[0].Id, reports.Dislike)
	require.ErrorIs(t, err, reports.ErrAlreadyRated)
	assert.Equal(t, len(accounts), counts.Likes+counts.Dislikes,
		"likes and dislikes must sum to the number of distinct raters")
	assert.Equal(t, reports.RatingCounts{Likes: 0, Dislikes: 3}, counts)
}

func TestRate_UnknownReport(t *testing.T) {
	connection := newConnection(t)
	accounts := registerAccounts(t, connection, "a@x.com")
	rr := reports.NewRepository(connection)

	_, err := rr.Rate(404, accounts[0].Id, reports.Like)
	assert.ErrorIs(t, err, reports.ErrNotFound)
}

func TestSubmitReportData_Validation(t *testing.T) {
	// evidence is mandatory and its absence must fail before any write
	assert.Error(t, reports.SubmitReportData{Username: "someone"}.Validate())
	assert.Error(t, reports.SubmitReportData{EvidenceUrl: "https://example.com/e"}.Validate())
	assert.NoError(t, reports.SubmitReportData{Username: "someone", EvidenceUrl: "https://example.com/e"}.Validate())
}

func TestRateData_Validation(t *testing.T) {
	assert.NoError(t, reports.RateData{Rating: reports.Like}.Validate())
	assert.NoError(t, reports.RateData{Rating: reports.Dislike}.Validate())
	assert.Error(t, reports.RateData{Rating: "meh"}.Validate())
	assert.Error(t, reports.RateData{}.Validate())
}
