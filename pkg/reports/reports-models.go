package reports

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Ratings

type RatingType string

const (
	Like    RatingType = "like"
	Dislike RatingType = "dislike"
)

var ratingTypes = []interface{}{Like, Dislike}

type RateData struct {
	Rating RatingType `json:"rating_type"`
}

func (data RateData) Validate() error {
	return validation.ValidateStruct(&data, validation.Field(&data.Rating,
		validation.Required,
		validation.In(ratingTypes...),
	))
}

// Reports

type SubmitReportData struct {
	Username    string `json:"telegram_username"`
	IsScammer   bool   `json:"is_scammer"`
	Description string `json:"description"`
	EvidenceUrl string `json:"evidence_url"`
}

func (data SubmitReportData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&data.EvidenceUrl, validation.Required),
	)
}

type ReportResponse struct {
	Id          int64  `json:"id"`
	Username    string `json:"telegram_username"`
	IsScammer   bool   `json:"is_scammer"`
	ReportCount int    `json:"report_count"`
	Description string `json:"description"`
	EvidenceUrl string `json:"evidence_url"`
	Likes       int    `json:"likes"`
	Dislikes    int    `json:"dislikes"`
}

// RatingCounts carries a report's denormalised counters, always recomputed from the rating rows.
type RatingCounts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}
