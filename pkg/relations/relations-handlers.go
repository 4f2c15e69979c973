package relations

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pr-poehali-dev/anti-scam-database/pkg/auth"
	JSON "github.com/pr-poehali-dev/anti-scam-database/pkg/json-utilities"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, rr RelationRepository, ar *auth.Repository, signer auth.Signer) {
	engine.Post("/friendships", requestFriendship(rr), auth.Auth(signer, ar))
	engine.Put("/friendships/:id", respondToRequest(rr), auth.Auth(signer, ar))
	engine.Get("/friendships", getFriends(rr), auth.Auth(signer, ar))
}

// requestFriendship handles the POST "/friendships" route
func requestFriendship(rr RelationRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var requester = auth.MustGetAccount(request)

		data, err := JSON.DecodeValidate[FriendRequestData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		// short circuit the handler when the target and the source match
		if data.TargetTag == requester.Tag {
			JSON.BadRequestWithMessage(writer, "Narcissistic request: can't befriend oneself")
			return
		}

		// attempt the request and fail when:
		// - no account matches the target tag (ErrNotFound)
		// - a friendship exists for the pair, in either orientation (ErrDupRequest)
		if err = rr.Request(requester.Id, data.TargetTag); err == nil {
			JSON.Created(writer, struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}{true, "Friend request sent"})
		} else if errors.Is(err, ErrDupRequest) {
			// the original insert suppressed conflicts silently; report success without a new row
			JSON.Ok(writer, struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}{true, "Friend request already exists"})
		} else if errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, fmt.Sprintf("User %s not found", data.TargetTag))
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// respondToRequest handles the PUT "/friendships/:id" route
func respondToRequest(rr RelationRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var responder = auth.MustGetAccount(request)

		friendshipId, err := strconv.ParseInt(rest.GetParam(request, "id"), 10, 64)
		if err != nil {
			JSON.BadRequestWithMessage(writer, "Friendship id must be numeric")
			return
		}

		data, err := JSON.DecodeValidate[RespondData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if err = rr.Respond(friendshipId, responder.Id, data.Action == "accept"); err == nil {
			JSON.Ok(writer, struct {
				Success bool `json:"success"`
			}{true})
		} else if errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "Friend request not found")
		} else if errors.Is(err, ErrNotRecipient) {
			JSON.Forbidden(writer)
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}

// getFriends handles the GET "/friendships" route
func getFriends(rr RelationRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var account = auth.MustGetAccount(request)

		if friends, err := rr.GetFriends(account.Id); err == nil {
			JSON.Ok(writer, struct {
				Friends []Friend `json:"friends"`
			}{friends})
		} else {
			JSON.InternalServerError(writer, err)
		}
	}
}
