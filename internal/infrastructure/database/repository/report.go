package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"palava-proof/internal/domain/models"
)

const reportsSchema = `
	CREATE TABLE IF NOT EXISTS scam_reports (
		id             BIGSERIAL PRIMARY KEY,
		content        TEXT NOT NULL,
		type           TEXT NOT NULL DEFAULT 'sms',
		phone_number   TEXT NOT NULL DEFAULT '',
		url            TEXT NOT NULL DEFAULT '',
		reported_by    TEXT NOT NULL DEFAULT '',
		reported_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		verified       BOOLEAN NOT NULL DEFAULT FALSE,
		times_reported INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_scam_reports_phone ON scam_reports(phone_number) WHERE phone_number <> '';
	CREATE INDEX IF NOT EXISTS idx_scam_reports_url ON scam_reports(url) WHERE url <> '';
	CREATE INDEX IF NOT EXISTS idx_scam_reports_reported_at ON scam_reports(reported_at DESC);`

const reportColumns = `id, content, type, phone_number, url, reported_by, reported_at, verified, times_reported`

// ReportRepository handles scam report persistence in PostgreSQL
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// EnsureSchema creates the reports table if it does not exist
func (r *ReportRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, reportsSchema); err != nil {
		return fmt.Errorf("failed to create reports schema: %w", err)
	}
	return nil
}

// Ping checks the underlying connection
func (r *ReportRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// FindSimilar returns the oldest report whose content contains
// contentPrefix (ignoring case) or that shares a phone number or URL
func (r *ReportRepository) FindSimilar(ctx context.Context, contentPrefix, phone, url string) (*models.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM scam_reports
		WHERE strpos(lower(content), lower($1)) > 0
		   OR ($2 <> '' AND phone_number = $2)
		   OR ($3 <> '' AND url = $3)
		ORDER BY id
		LIMIT 1`

	report, err := r.scanReport(r.pool.QueryRow(ctx, query, contentPrefix, phone, url))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find similar report: %w", err)
	}
	return report, nil
}

// Insert stores a new report and returns its id
func (r *ReportRepository) Insert(ctx context.Context, rep *models.Report) (int64, error) {
	query := `
		INSERT INTO scam_reports (
			content, type, phone_number, url, reported_by, reported_at, verified, times_reported
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		rep.Content, rep.Type, rep.PhoneNumber, rep.URL, rep.ReportedBy,
		rep.ReportedAt, rep.Verified, rep.TimesReported,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}
	return id, nil
}

// IncrementTimesReported bumps the report counter
func (r *ReportRepository) IncrementTimesReported(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE scam_reports SET times_reported = times_reported + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment report %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrReportNotFound
	}
	return nil
}

// Recent lists verified or repeatedly reported scams, newest first
func (r *ReportRepository) Recent(ctx context.Context, limit int) ([]models.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM scam_reports
		WHERE verified OR times_reported > 3
		ORDER BY reported_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		rep, err := r.scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, rows.Err()
}

// CountByURL counts reports that carried the given URL
func (r *ReportRepository) CountByURL(ctx context.Context, url string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scam_reports WHERE url = $1`, url).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports by url: %w", err)
	}
	return count, nil
}

// CountByPhone counts reports that carried the given phone number
func (r *ReportRepository) CountByPhone(ctx context.Context, phone string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scam_reports WHERE phone_number = $1`, phone).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports by phone: %w", err)
	}
	return count, nil
}

func (r *ReportRepository) scanReport(row pgx.Row) (*models.Report, error) {
	var rep models.Report
	err := row.Scan(
		&rep.ID, &rep.Content, &rep.Type, &rep.PhoneNumber, &rep.URL,
		&rep.ReportedBy, &rep.ReportedAt, &rep.Verified, &rep.TimesReported,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
