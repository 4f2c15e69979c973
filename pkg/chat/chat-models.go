package chat

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/ntime"
)

type CreateChatData struct {
	FriendId int64 `json:"friend_id"`
}

func (data CreateChatData) Validate() error {
	return validation.ValidateStruct(&data, validation.Field(&data.FriendId, validation.Required))
}

type SendMessageData struct {
	Text string `json:"message_text"`
}

func (data SendMessageData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Text, validation.Required, validation.Length(1, 4000)),
	)
}

type MessageResponse struct {
	Id           string      `json:"id"`
	SenderId     int64       `json:"sender_id"`
	Text         string      `json:"text"`
	Created      ntime.NTime `json:"created_at"`
	SenderEmail  string      `json:"sender_email"`
	SenderAvatar *string     `json:"sender_avatar"`
}

// ChatSummary pairs the other participant's profile with the thread's most recent message;
// threads without messages carry a null message and timestamp.
type ChatSummary struct {
	ChatId          string      `json:"chat_id"`
	FriendId        int64       `json:"friend_id"`
	FriendTag       string      `json:"friend_user_id"`
	FriendEmail     string      `json:"friend_email"`
	FriendAvatar    *string     `json:"friend_avatar"`
	LastMessage     *string     `json:"last_message"`
	LastMessageTime ntime.NTime `json:"last_message_time"`
}
