package admin

import "github.com/pr-poehali-dev/anti-scam-database/pkg/ntime"

type AccountOverview struct {
	Id        int64       `json:"id"`
	Tag       string      `json:"user_id"`
	Email     string      `json:"email"`
	IsCreator bool        `json:"is_creator"`
	AvatarUrl *string     `json:"avatar_url"`
	Created   ntime.NTime `json:"created_at"`
}

// AbuseReportView joins a pending complaint with both parties' identifying fields.
type AbuseReportView struct {
	Id            int64       `json:"id"`
	ReporterId    int64       `json:"reporter_id"`
	ReportedId    int64       `json:"reported_id"`
	Reason        string      `json:"reason"`
	Created       ntime.NTime `json:"created_at"`
	Status        string      `json:"status"`
	ReporterTag   string      `json:"reporter_user_id"`
	ReporterEmail string      `json:"reporter_email"`
	ReportedTag   string      `json:"reported_user_id"`
	ReportedEmail string      `json:"reported_email"`
}

type OverviewResponse struct {
	Users   []AccountOverview `json:"users"`
	Reports []AbuseReportView `json:"reports"`
}
