package admin

import (
	"database/sql"
	"errors"
)

type AdminRepository interface {
	GetAccounts() ([]AccountOverview, error)
	GetPendingAbuseReports() ([]AbuseReportView, error)
	ToggleCreator(accountId int64) (bool, error)
	ResolveAbuseReport(reportId int64) error
}

type adminRepository struct {
	Connection *sql.DB
}

var ErrNotFound = errors.New("not found")

func NewRepository(connection *sql.DB) AdminRepository {
	return &adminRepository{connection}
}

func (ar *adminRepository) GetAccounts() ([]AccountOverview, error) {

	var accounts = make([]AccountOverview, 0)

	rows, err := ar.Connection.Query(`
		SELECT id, tag, email, is_creator, avatar_url, created
		FROM accounts
		ORDER BY created DESC`,
	)
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		var account AccountOverview
		if err = rows.Scan(&account.Id, &account.Tag, &account.Email, &account.IsCreator,
			&account.AvatarUrl, &account.Created); err != nil {
			return accounts, err
		}
		accounts = append(accounts, account)
	}

	if err = rows.Err(); err != nil {
		return accounts, err
	}
	if err = rows.Close(); err != nil {
		return accounts, err
	}

	return accounts, nil
}

func (ar *adminRepository) GetPendingAbuseReports() ([]AbuseReportView, error) {

	var reports = make([]AbuseReportView, 0)

	rows, err := ar.Connection.Query(`
		SELECT r.id, r.reporter, r.reported, r.reason, r.created, r.status,
			reporter.tag, reporter.email, reported.tag, reported.email
		FROM abuse_reports r
		JOIN accounts reporter ON r.reporter = reporter.id
		JOIN accounts reported ON r.reported = reported.id
		WHERE r.status = 'pending'
		ORDER BY r.created DESC`,
	)
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		var report AbuseReportView
		if err = rows.Scan(&report.Id, &report.ReporterId, &report.ReportedId, &report.Reason,
			&report.Created, &report.Status, &report.ReporterTag, &report.ReporterEmail,
			&report.ReportedTag, &report.ReportedEmail); err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}

	if err = rows.Err(); err != nil {
		return reports, err
	}
	if err = rows.Close(); err != nil {
		return reports, err
	}

	return reports, nil
}

// ToggleCreator flips an account's privileged flag and returns the new value.
func (ar *adminRepository) ToggleCreator(accountId int64) (isCreator bool, err error) {
	err = ar.Connection.QueryRow(
		"UPDATE accounts SET is_creator = NOT is_creator WHERE id = ? RETURNING is_creator", accountId,
	).Scan(&isCreator)

	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	return isCreator, err
}

func (ar *adminRepository) ResolveAbuseReport(reportId int64) error {
	result, err := ar.Connection.Exec(
		"UPDATE abuse_reports SET status = 'resolved' WHERE id = ?", reportId,
	)
	if err != nil {
		return err
	}

	resolved, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if resolved == 0 {
		return ErrNotFound
	}
	return nil
}
