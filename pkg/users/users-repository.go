package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/ntime"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	Register(data RegisterData) (Account, error)
	Login(data LoginData) (Account, error)
	GetAccountById(id int64) (Account, error)
	GetAccountByTag(tag string) (Account, error)
	SetAvatar(accountId int64, avatarUrl string) (Account, error)
	FileAbuseReport(reporterId int64, reportedId int64, reason string) error
}

type userRepository struct {
	Connection *sql.DB
}

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("account not found")
)

func NewRepository(connection *sql.DB) UserRepository {
	return &userRepository{connection}
}

// tagOffset turns sequential row ids into human readable tags: the first account becomes #1000.
const tagOffset = 999

// Register creates a new account with a salted adaptive password hash and a sequential public tag.
// The tag stems from the row's AUTOINCREMENT key rather than an application side row count,
// so concurrent registrations can't collide. The first account ever created is marked privileged.
func (ur *userRepository) Register(data RegisterData) (Account, error) {

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("couldn't hash password for %q: %w", data.Email, err)
	}

	tx, err := ur.Connection.Begin()
	if err != nil {
		return Account{}, err
	}

	// rolling back after a transaction commit results in a safe NOP
	defer tx.Rollback()

	var now = ntime.Now()

	// the tag placeholder is overwritten before the transaction commits
	result, err := tx.Exec(
		"INSERT INTO accounts (tag, email, password_hash, is_creator, created) VALUES ('', ?, ?, FALSE, ?)",
		data.Email, string(hash), now,
	)

	// detect email uniqueness violations, which signal a previous registration
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return Account{}, ErrEmailTaken
		}
	}
	if err != nil {
		return Account{}, fmt.Errorf("couldn't register %q: %w", data.Email, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Account{}, err
	}

	var tag = fmt.Sprintf("#%d", tagOffset+id)
	var isCreator = id == 1

	if _, err = tx.Exec("UPDATE accounts SET tag = ?, is_creator = ? WHERE id = ?", tag, isCreator, id); err != nil {
		return Account{}, err
	}

	if err = tx.Commit(); err != nil {
		return Account{}, err
	}

	return Account{
		Id:        id,
		Tag:       tag,
		Email:     data.Email,
		IsCreator: isCreator,
		Created:   now,
	}, nil
}

// Login verifies the supplied credentials, returning ErrInvalidCredentials for both unknown
// emails and mismatched passwords, so responses can't be used to probe for registered emails.
func (ur *userRepository) Login(data LoginData) (Account, error) {
	var account Account
	var hash string

	err := ur.Connection.QueryRow(
		"SELECT id, tag, email, is_creator, avatar_url, created, password_hash FROM accounts WHERE email = ?",
		data.Email,
	).Scan(&account.Id, &account.Tag, &account.Email, &account.IsCreator, &account.AvatarUrl, &account.Created, &hash)

	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(data.Password)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	return account, nil
}

func (ur *userRepository) GetAccountById(id int64) (account Account, err error) {
	err = ur.Connection.QueryRow(
		"SELECT id, tag, email, is_creator, avatar_url, created FROM accounts WHERE id = ?", id,
	).Scan(&account.Id, &account.Tag, &account.Email, &account.IsCreator, &account.AvatarUrl, &account.Created)

	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

func (ur *userRepository) GetAccountByTag(tag string) (account Account, err error) {
	err = ur.Connection.QueryRow(
		"SELECT id, tag, email, is_creator, avatar_url, created FROM accounts WHERE tag = ?", tag,
	).Scan(&account.Id, &account.Tag, &account.Email, &account.IsCreator, &account.AvatarUrl, &account.Created)

	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

func (ur *userRepository) SetAvatar(accountId int64, avatarUrl string) (Account, error) {
	if _, err := ur.Connection.Exec("UPDATE accounts SET avatar_url = ? WHERE id = ?", avatarUrl, accountId); err != nil {
		return Account{}, err
	}
	return ur.GetAccountById(accountId)
}

// FileAbuseReport records a pending complaint against another account; only privileged accounts ever see it.
func (ur *userRepository) FileAbuseReport(reporterId int64, reportedId int64, reason string) error {
	result, err := ur.Connection.Exec(`
		INSERT INTO abuse_reports (reporter, reported, reason, status, created)
		SELECT ?, id, ?, 'pending', ? FROM accounts WHERE id = ?`,
		reporterId, reason, ntime.Now(), reportedId,
	)
	if err != nil {
		return err
	}

	// no affected rows mean the reported account doesn't exist
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
