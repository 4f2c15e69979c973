package relations

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/ntime"
)

type RelationRepository interface {
	Request(requesterId int64, targetTag string) error
	Respond(friendshipId int64, responderId int64, accept bool) error
	GetFriends(accountId int64) ([]Friend, error)
}

type relationRepository struct {
	Connection *sql.DB
}

var (
	ErrNotFound     = errors.New("user not found")
	ErrDupRequest   = errors.New("friendship already exists for the pair")
	ErrNotRecipient = errors.New("responder isn't the invited party")
)

func NewRepository(connection *sql.DB) RelationRepository {
	return &relationRepository{connection}
}

// Request records a pending friendship towards the account matching the target tag.
// Duplicates are checked against the unordered pair, so a reverse request from the
// other side is caught as well; a unique index on the normalized pair backs the check.
func (rr *relationRepository) Request(requesterId int64, targetTag string) error {

	tx, err := rr.Connection.Begin()
	if err != nil {
		return err
	}

	// rolling back after a transaction commit results in a safe NOP
	defer tx.Rollback()

	var targetId int64
	err = tx.QueryRow("SELECT id FROM accounts WHERE tag = ?", targetTag).Scan(&targetId)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	// look for an existing friendship in either orientation
	var exists bool
	err = tx.QueryRow(`
		SELECT TRUE FROM friendships
		WHERE (requester = ? AND recipient = ?) OR (requester = ? AND recipient = ?)`,
		requesterId, targetId, targetId, requesterId,
	).Scan(&exists)
	if err == nil && exists {
		return ErrDupRequest
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = tx.Exec(
		"INSERT INTO friendships (requester, recipient, status, created) VALUES (?, ?, 'pending', ?)",
		requesterId, targetId, ntime.Now(),
	)

	// the pair index catches requests racing past the lookup above
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDupRequest
		}
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Respond settles a pending request; only the stored recipient may accept or reject it.
func (rr *relationRepository) Respond(friendshipId int64, responderId int64, accept bool) error {

	tx, err := rr.Connection.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var recipientId int64
	err = tx.QueryRow("SELECT recipient FROM friendships WHERE id = ?", friendshipId).Scan(&recipientId)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if recipientId != responderId {
		return ErrNotRecipient
	}

	var status = Rejected
	if accept {
		status = Accepted
	}

	if _, err = tx.Exec("UPDATE friendships SET status = ? WHERE id = ?", status, friendshipId); err != nil {
		return err
	}

	return tx.Commit()
}

// GetFriends returns every friendship the account takes part in, on either side,
// joined to the other party's profile.
func (rr *relationRepository) GetFriends(accountId int64) ([]Friend, error) {

	// initialise an empty slice to avoid null serialisation
	var friends = make([]Friend, 0)

	rows, err := rr.Connection.Query(`
		SELECT a.id, a.tag, a.email, a.is_creator, a.avatar_url, f.status, f.id
		FROM friendships f
		JOIN accounts a ON (a.id = f.requester OR a.id = f.recipient)
		WHERE (f.requester = ? OR f.recipient = ?) AND a.id != ?`,
		accountId, accountId, accountId,
	)
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		var friend Friend
		if err = rows.Scan(&friend.Id, &friend.Tag, &friend.Email, &friend.IsCreator,
			&friend.AvatarUrl, &friend.Status, &friend.FriendshipId); err != nil {
			return friends, err
		}
		friends = append(friends, friend)
	}

	if err = rows.Err(); err != nil {
		return friends, err
	}
	if err = rows.Close(); err != nil {
		return friends, err
	}

	return friends, nil
}
