package reports

import (
	"database/sql"
	"errors"

	"github.com/pr-poehali-dev/anti-scam-database/pkg/ntime"
	"github.com/pr-poehali-dev/anti-scam-database/pkg/rest"
)

type ReportRepository interface {
	Submit(data SubmitReportData, reporterId int64) error
	Search(fragment string) ([]ReportResponse, error)
	Rate(reportId int64, raterId int64, rating RatingType) (RatingCounts, error)
}

type reportRepository struct {
	Connection *sql.DB
}

var (
	ErrNotFound     = errors.New("report not found")
	ErrAlreadyRated = errors.New("rater already holds this rating")
)

func NewRepository(connection *sql.DB) ReportRepository {
	return &reportRepository{connection}
}

// Submit consolidates a scam report under its target username: repeat submissions
// bump the existing row's report count and overwrite its verdict, description and
// evidence, while first submissions create the row. Either way exactly one evidence
// record is appended, within the same transaction as the report mutation.
func (rr *reportRepository) Submit(data SubmitReportData, reporterId int64) error {

	tx, err := rr.Connection.Begin()
	if err != nil {
		return err
	}

	// rolling back after a transaction commit results in a safe NOP
	defer tx.Rollback()

	var reportId int64
	var reportCount int
	err = tx.QueryRow(
		"SELECT id, report_count FROM scam_reports WHERE username = ?", data.Username,
	).Scan(&reportId, &reportCount)

	switch {
	case err == nil:
		if _, err = tx.Exec(`
			UPDATE scam_reports
			SET report_count = ?, is_scammer = ?, description = ?, evidence_url = ?, updated = ?
			WHERE id = ?`,
			reportCount+1, data.IsScammer, data.Description, data.EvidenceUrl, ntime.Now(), reportId,
		); err != nil {
			return err
		}

	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.Exec(`
			INSERT INTO scam_reports (username, is_scammer, report_count, description, evidence_url, reported_by, created)
			VALUES (?, ?, 1, ?, ?, ?, ?)`,
			data.Username, data.IsScammer, data.Description, data.EvidenceUrl, reporterId, ntime.Now(),
		)
		if err != nil {
			return err
		}
		if reportId, err = result.LastInsertId(); err != nil {
			return err
		}

	default:
		return err
	}

	// every submission, first or repeat, appends one evidence record
	if _, err = tx.Exec(
		"INSERT INTO report_evidence (id, report, evidence_url, uploaded_by, created) VALUES (?, ?, ?, ?, ?)",
		rest.MustGetNewUUID(), reportId, data.EvidenceUrl, reporterId, ntime.Now(),
	); err != nil {
		return err
	}

	return tx.Commit()
}

// Search matches usernames against a case insensitive substring and returns the full result set.
func (rr *reportRepository) Search(fragment string) ([]ReportResponse, error) {

	// initialise an empty slice to avoid null serialisation
	var reports = make([]ReportResponse, 0)

	rows, err := rr.Connection.Query(`
		SELECT id, username, is_scammer, report_count, description, evidence_url, likes, dislikes
		FROM scam_reports
		WHERE lower(username) LIKE '%' || lower(?) || '%'`,
		fragment,
	)
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		var report ReportResponse
		if err = rows.Scan(&report.Id, &report.Username, &report.IsScammer, &report.ReportCount,
			&report.Description, &report.EvidenceUrl, &report.Likes, &report.Dislikes); err != nil {
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

/*
Rate applies one rater's like or dislike to a report as an idempotent toggle:

  - no prior rating: a new rating row is inserted
  - prior rating equals the requested type: nothing changes and ErrAlreadyRated is returned along with the current counters
  - prior rating differs: the row flips to the requested type

After any write both counters are recomputed from the rating rows inside the same
transaction, so they always equal the authoritative counts and repeated toggling
can't make them drift, even after partially failed attempts.
*/
func (rr *reportRepository) Rate(reportId int64, raterId int64, rating RatingType) (counts RatingCounts, err error) {

	tx, err := rr.Connection.Begin()
	if err != nil {
		return counts, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow("SELECT TRUE FROM scam_reports WHERE id = ?", reportId).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return counts, ErrNotFound
	}
	if err != nil {
		return counts, err
	}

	var previous RatingType
	err = tx.QueryRow(
		"SELECT rating FROM report_ratings WHERE report = ? AND rater = ?", reportId, raterId,
	).Scan(&previous)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err = tx.Exec(
			"INSERT INTO report_ratings (report, rater, rating, created) VALUES (?, ?, ?, ?)",
			reportId, raterId, rating, ntime.Now(),
		); err != nil {
			return counts, err
		}

	case err != nil:
		return counts, err

	case previous == rating:
		// mutation free repeat; report the current counters alongside the sentinel
		if err = tx.QueryRow(
			"SELECT likes, dislikes FROM scam_reports WHERE id = ?", reportId,
		).Scan(&counts.Likes, &counts.Dislikes); err != nil {
			return counts, err
		}
		return counts, ErrAlreadyRated

	default:
		if _, err = tx.Exec(
			"UPDATE report_ratings SET rating = ? WHERE report = ? AND rater = ?",
			rating, reportId, raterId,
		); err != nil {
			return counts, err
		}
	}

	// recompute both counters from the authoritative rating rows rather than
	// incrementing, so a report's cached counts can never diverge from them
	if _, err = tx.Exec(`
		UPDATE scam_reports SET
			likes = (SELECT count(*) FROM report_ratings WHERE report = ? AND rating = 'like'),
			dislikes = (SELECT count(*) FROM report_ratings WHERE report = ? AND rating = 'dislike')
		WHERE id = ?`,
		reportId, reportId, reportId,
	); err != nil {
		return counts, err
	}

	if err = tx.QueryRow(
		"SELECT likes, dislikes FROM scam_reports WHERE id = ?", reportId,
	).Scan(&counts.Likes, &counts.Dislikes); err != nil {
		return counts, err
	}

	return counts, tx.Commit()
}
