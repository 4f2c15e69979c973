package chat

import (
	"database/sql"
	"errors"

	"github.com/pr-poehali-dev/anti-scam-database/pkg/ntime"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/rest"
)

type ChatRepository interface {
	GetOrCreateChat(callerId int64, friendId int64) (chatId string, err error)
	IsParticipant(chatId string, accountId int64) bool
	AddMessage(chatId string, senderId int64, text string) (string, ntime.NTime, error)
	GetMessages(chatId string) ([]MessageResponse, error)
	GetChatSummaries(accountId int64) ([]ChatSummary, error)
}

type chatRepository struct {
	Connection *sql.DB
}

var ErrNotFound = errors.New("user not found")

func NewRepository(connection *sql.DB) ChatRepository {
	return &chatRepository{connection}
}

// GetOrCreateChat returns the thread shared by the unordered pair, creating it lazily on first contact.
// A two sided participant join detects existing threads regardless of who initiated them,
// so repeated calls always yield the same id and never a duplicate thread.
func (cr *chatRepository) GetOrCreateChat(callerId int64, friendId int64) (string, error) {

	tx, err := cr.Connection.Begin()
	if err != nil {
		return "", err
	}

	// rolling back after a transaction commit results in a safe NOP
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow("SELECT TRUE FROM accounts WHERE id = ?", friendId).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	var chatId string
	err = tx.QueryRow(`
		SELECT c.id FROM chats c
		JOIN chat_participants first ON c.id = first.chat AND first.account = ?
		JOIN chat_participants second ON c.id = second.chat AND second.account = ?`,
		callerId, friendId,
	).Scan(&chatId)

	if err == nil {
		return chatId, tx.Commit()
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	// no thread yet; create it along with both participant rows
	chatId = rest.MustGetNewUUID()
	if _, err = tx.Exec("INSERT INTO chats (id, created) VALUES (?, ?)", chatId, ntime.Now()); err != nil {
		return "", err
	}
	if _, err = tx.Exec(
		"INSERT INTO chat_participants (chat, account) VALUES (?, ?), (?, ?)",
		chatId, callerId, chatId, friendId,
	); err != nil {
		return "", err
	}

	return chatId, tx.Commit()
}

// IsParticipant verifies that the account belongs to the thread before messages are read or appended.
func (cr *chatRepository) IsParticipant(chatId string, accountId int64) (exists bool) {
	var err = cr.Connection.QueryRow(
		"SELECT TRUE FROM chat_participants WHERE chat = ? AND account = ?",
		chatId, accountId,
	).Scan(&exists)
	return err == nil && exists
}

func (cr *chatRepository) AddMessage(chatId string, senderId int64, text string) (string, ntime.NTime, error) {
	var id = rest.MustGetNewUUID()
	var date = ntime.Now()
	_, err := cr.Connection.Exec(
		"INSERT INTO messages (id, chat, sender, text, created) VALUES (?, ?, ?, ?, ?)",
		id, chatId, senderId, text, date,
	)
	return id, date, err
}

// GetMessages returns a thread's full history, oldest first, with the sender's profile fields.
func (cr *chatRepository) GetMessages(chatId string) ([]MessageResponse, error) {

	var messages = make([]MessageResponse, 0)

	rows, err := cr.Connection.Query(`
		SELECT m.id, m.sender, m.text, m.created, a.email, a.avatar_url
		FROM messages m
		JOIN accounts a ON m.sender = a.id
		WHERE m.chat = ?
		ORDER BY m.created ASC`,
		chatId,
	)
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		var message MessageResponse
		if err = rows.Scan(&message.Id, &message.SenderId, &message.Text, &message.Created,
			&message.SenderEmail, &message.SenderAvatar); err != nil {
			return messages, err
		}
		messages = append(messages, message)
	}

	if err = rows.Err(); err != nil {
		return messages, err
	}
	if err = rows.Close(); err != nil {
		return messages, err
	}

	return messages, nil
}

// GetChatSummaries lists every thread the account takes part in, coupling the other
// participant's profile with the latest message; freshest threads come first and
// threads without messages sort last.
func (cr *chatRepository) GetChatSummaries(accountId int64) ([]ChatSummary, error) {

	var summaries = make([]ChatSummary, 0)

	rows, err := cr.Connection.Query(`
		SELECT c.id, a.id, a.tag, a.email, a.avatar_url,
			(SELECT text FROM messages WHERE chat = c.id ORDER BY created DESC LIMIT 1) as last_message,
			(SELECT created FROM messages WHERE chat = c.id ORDER BY created DESC LIMIT 1) as last_message_time
		FROM chats c
		JOIN chat_participants own ON c.id = own.chat AND own.account = ?
		JOIN chat_participants other ON c.id = other.chat AND other.account != ?
		JOIN accounts a ON other.account = a.id
		ORDER BY last_message_time DESC NULLS LAST`,
		accountId, accountId,
	)
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		var summary ChatSummary
		if err = rows.Scan(&summary.ChatId, &summary.FriendId, &summary.FriendTag, &summary.FriendEmail,
			&summary.FriendAvatar, &summary.LastMessage, &summary.LastMessageTime); err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return summaries, err
	}
	if err = rows.Close(); err != nil {
		return summaries, err
	}

	return summaries, nil
}
