package chat

import (
	"errors"
	"net/http"

	"github.com/pr-poehali-dev/anti-scam-database/pkg/auth"
	JSON "github.com/pr-poehali-dev/anti-scam-database/pkg/json-utilities"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/ntime"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, cr ChatRepository, ar *auth.Repository, signer auth.Signer) {
	engine.Post("/chats", createChat(cr), auth.Auth(signer, ar))
	engine.Get("/chats", getChatSummaries(cr), auth.Auth(signer, ar))
	engine.Post("/chats/:id/messages", sendMessage(cr), auth.Auth(signer, ar))
	engine.Get("/chats/:id/messages", getMessages(cr), auth.Auth(signer, ar))
}

// createChat handles the POST "/chats" route
func createChat(cr ChatRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var caller = auth.MustGetAccount(request)

		data, err := JSON.DecodeValidate[CreateChatData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		// short circuit the handler when the target and the source match
		if data.FriendId == caller.Id {
			JSON.BadRequestWithMessage(writer, "Narcissistic request: can't chat with oneself")
			return
		}

		chatId, err := cr.GetOrCreateChat(caller.Id, data.FriendId)
		if errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "User not found")
			return
		}
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		JSON.Ok(writer, struct {
			ChatId string `json:"chat_id"`
		}{chatId})
	}
}

// sendMessage handles the POST "/chats/:id/messages" route
func sendMessage(cr ChatRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var sender = auth.MustGetAccount(request)
		var chatId = rest.GetParam(request, "id")

		// senders must belong to the thread
		if !cr.IsParticipant(chatId, sender.Id) {
			JSON.Forbidden(writer)
			return
		}

		data, err := JSON.DecodeValidate[SendMessageData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		messageId, date, err := cr.AddMessage(chatId, sender.Id, data.Text)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		JSON.Created(writer, struct {
			MessageId string      `json:"message_id"`
			Created   ntime.NTime `json:"created_at"`
		}{messageId, date})
	}
}

// getMessages handles the GET "/chats/:id/messages" route
func getMessages(cr ChatRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var caller = auth.MustGetAccount(request)
		var chatId = rest.GetParam(request, "id")

		if !cr.IsParticipant(chatId, caller.Id) {
			JSON.Forbidden(writer)
			return
		}

		if messages, err := cr.GetMessages(chatId); err == nil {
			JSON.Ok(writer, struct {
				Messages []MessageResponse `json:"messages"`
			}{messages})
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// getChatSummaries handles the GET "/chats" route
func getChatSummaries(cr ChatRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var caller = auth.MustGetAccount(request)

		if summaries, err := cr.GetChatSummaries(caller.Id); err == nil {
			JSON.Ok(writer, struct {
				Chats []ChatSummary `json:"chats"`
			}{summaries})
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}
