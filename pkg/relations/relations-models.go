package relations

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type FriendshipStatus string

const (
	Pending  FriendshipStatus = "pending"
	Accepted FriendshipStatus = "accepted"
	Rejected FriendshipStatus = "rejected"
)

type FriendRequestData struct {
	TargetTag string `json:"friend_user_id"`
}

func (data FriendRequestData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.TargetTag, validation.Required, validation.Length(2, 16)),
	)
}

type RespondData struct {
	Action string `json:"action"`
}

func (data RespondData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Action, validation.Required, validation.In("accept", "reject")),
	)
}

// Friend couples the other party's profile with the friendship row's state.
type Friend struct {
	Id           int64            `json:"id"`
	Tag          string           `json:"user_id"`
	Email        string           `json:"email"`
	IsCreator    bool             `json:"is_creator"`
	AvatarUrl    *string          `json:"avatar_url"`
	Status       FriendshipStatus `json:"status"`
	FriendshipId int64            `json:"friendship_id"`
}
