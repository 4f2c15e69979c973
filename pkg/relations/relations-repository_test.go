package relations_test

import (
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"github.com/pr-poehali-dev/anti-scam-database/pkg/relations"
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

func registerPair(t *testing.T, connection *sql.DB) (users.Account, users.Account) {
	t.Helper()
	ur := users.NewRepository(connection)
	first, err := ur.Register(users.RegisterData{Email: "first@x.com", Password: "p"})
	require.NoError(t, err)
	second, err := ur.Register(users.RegisterData{Email: "second@x.com", Password: "p"})
	require.NoError(t, err)
	return first, second
}

func TestRequest(t *testing.T) {
	connection := newConnection(t)
	first, second := registerPair(t, connection)
	rr := relations.NewRepository(connection)

	require.NoError(t, rr.Request(first.Id, second.Tag))

	// the recipient sees a pending request from the other party
	friends, err := rr.GetFriends(second.Id)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, first.Id, friends[0].Id)
	assert.Equal(t, relations.Pending, friends[0].Status)
}

func TestRequest_UnknownTarget(t *testing.T) {
	connection := newConnection(t)
	first, _ := registerPair(t, connection)
	rr := relations.NewRepository(connection)

	assert.ErrorIs(t, rr.Request(first.Id, "#4242"), relations.ErrNotFound)
}

func TestRequest_DuplicateDetectsBothOrientations(t *testing.T) {
	connection := newConnection(t)
	first, second := registerPair(t, connection)
	rr := relations.NewRepository(connection)

	require.NoError(t, rr.Request(first.Id, second.Tag))

	// repeating the request is suppressed
	assert.ErrorIs(t, rr.Request(first.Id, second.Tag), relations.ErrDupRequest)

	// so is the reverse request from the other side
	assert.ErrorIs(t, rr.Request(second.Id, first.Tag), relations.ErrDupRequest)

	var count int
	require.NoError(t, connection.QueryRow("SELECT count(*) FROM friendships").Scan(&count))
	assert.Equal(t, 1, count, "exactly one friendship row must exist for the unordered pair")
}

func TestRespond(t *testing.T) {
	connection := newConnection(t)
	first, second := registerPair(t, connection)
	rr := relations.NewRepository(connection)

	require.NoError(t, rr.Request(first.Id, second.Tag))

	friends, err := rr.GetFriends(second.Id)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	var friendshipId = friends[0].FriendshipId

	// the requester can't settle their own request
	assert.ErrorIs(t, rr.Respond(friendshipId, first.Id, true), relations.ErrNotRecipient)

	// the invited party can
	require.NoError(t, rr.Respond(friendshipId, second.Id, true))

	friends, err = rr.GetFriends(first.Id)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, relations.Accepted, friends[0].Status)
}

func TestRespond_Reject(t *testing.T) {
	connection := newConnection(t)
	first, second := registerPair(t, connection)
	rr := relations.NewRepository(connection)

	require.NoError(t, rr.Request(first.Id, second.Tag))

	friends, err := rr.GetFriends(second.Id)
	require.NoError(t, err)
	require.NoError(t, rr.Respond(friends[0].FriendshipId, second.Id, false))

	friends, err = rr.GetFriends(second.Id)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, relations.Rejected, friends[0].Status)

	// rejection isn't terminal: the recipient may still flip the same row later
	require.NoError(t, rr.Respond(friends[0].FriendshipId, second.Id, true))
}

func TestRespond_UnknownFriendship(t *testing.T) {
	connection := newConnection(t)
	first, _ := registerPair(t, connection)
	rr := relations.NewRepository(connection)

	assert.ErrorIs(t, rr.Respond(404, first.Id, true), relations.ErrNotFound)
}

func TestGetFriends_ExcludesSelfAndOtherPairs(t *testing.T) {
	connection := newConnection(t)
	first, second := registerPair(t, connection)
	ur := users.NewRepository(connection)
	third, err := ur.Register(users.RegisterData{Email: "third@x.com", Password: "p"})
	require.NoError(t, err)

	rr := relations.NewRepository(connection)
	require.NoError(t, rr.Request(first.Id, second.Tag))
	require.NoError(t, rr.Request(second.Id, third.Tag))

	friends, err := rr.GetFriends(first.Id)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, second.Id, friends[0].Id, "the listing must name the other party, never the caller")

	friends, err = rr.GetFriends(second.Id)
	require.NoError(t, err)
	assert.Len(t, friends, 2)
}
