package users

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/ntime"
)

var emailRules = []validation.Rule{validation.Required, is.Email}
var passwordRules = []validation.Rule{validation.Required, validation.Length(1, 72)}

// Account gathers an account's public profile fields; password hashes never leave the repository.
type Account struct {
	Id        int64      `json:"id"`
	Tag       string     `json:"user_id"`
	Email     string     `json:"email"`
	IsCreator bool       `json:"is_creator"`
	AvatarUrl *string    `json:"avatar_url"`
	Created   ntime.NTime `json:"created_at"`
}

type RegisterData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (data RegisterData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Email, emailRules...),
		validation.Field(&data.Password, passwordRules...),
	)
}

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (data LoginData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Email, emailRules...),
		validation.Field(&data.Password, passwordRules...),
	)
}

// SessionResponse couples the profile with a freshly signed session token.
type SessionResponse struct {
	Account
	Token string `json:"token"`
}

type UpdateAvatarData struct {
	AvatarUrl string `json:"avatar_url"`
}

func (data UpdateAvatarData) Validate() error {
	// data URLs uploaded from phones are legitimate avatar references, so no URL format rule applies
	return validation.ValidateStruct(&data, validation.Field(&data.AvatarUrl, validation.Required))
}

// Abuse reports

type AbuseReportData struct {
	ReportedId int64  `json:"reported_id"`
	Reason     string `json:"reason"`
}

func (data AbuseReportData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.ReportedId, validation.Required),
		validation.Field(&data.Reason, validation.Required, validation.Length(1, 3000)),
	)
}
