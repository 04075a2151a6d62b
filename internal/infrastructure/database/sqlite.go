package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"palava-proof/internal/domain/models"
	"palava-proof/pkg/logger"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS scam_reports (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		content        TEXT NOT NULL,
		type           TEXT NOT NULL DEFAULT 'sms',
		phone_number   TEXT NOT NULL DEFAULT '',
		url            TEXT NOT NULL DEFAULT '',
		reported_by    TEXT NOT NULL DEFAULT '',
		reported_at    DATETIME NOT NULL,
		verified       BOOLEAN NOT NULL DEFAULT 0,
		times_reported INTEGER NOT NULL DEFAULT 1,
		synced         BOOLEAN NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_scam_reports_phone ON scam_reports(phone_number);
	CREATE INDEX IF NOT EXISTS idx_scam_reports_url ON scam_reports(url);
	CREATE INDEX IF NOT EXISTS idx_scam_reports_reported_at ON scam_reports(reported_at);
	CREATE INDEX IF NOT EXISTS idx_scam_reports_synced ON scam_reports(synced);
`

const sqliteColumns = `id, content, type, phone_number, url, reported_by, reported_at, verified, times_reported, synced`

// SQLiteStore is the local report store used when PostgreSQL is not
// configured and by the CLI while offline
type SQLiteStore struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewSQLiteStore opens (or creates) the database at path and applies the schema
func NewSQLiteStore(path string, log *logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	log.WithComponent("sqlite").Info().Str("path", path).Msg("opened local report store")

	return &SQLiteStore{
		db:     db,
		logger: log.WithComponent("sqlite"),
	}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// FindSimilar returns the oldest report whose content contains
// contentPrefix (ignoring case) or that shares a phone number or URL
func (s *SQLiteStore) FindSimilar(ctx context.Context, contentPrefix, phone, url string) (*models.Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sqliteColumns+`
		FROM scam_reports
		WHERE instr(lower(content), lower(?)) > 0
		   OR (? <> '' AND phone_number = ?)
		   OR (? <> '' AND url = ?)
		ORDER BY id
		LIMIT 1`,
		contentPrefix, phone, phone, url, url,
	)

	rep, err := scanSQLiteReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find similar report: %w", err)
	}
	return rep, nil
}

// Insert stores a new, unsynced report and returns its id
func (s *SQLiteStore) Insert(ctx context.Context, rep *models.Report) (int64, error) {
	reportedAt := rep.ReportedAt
	if reportedAt.IsZero() {
		reportedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scam_reports (content, type, phone_number, url, reported_by, reported_at, verified, times_reported)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.Content, rep.Type, rep.PhoneNumber, rep.URL, rep.ReportedBy,
		reportedAt.UTC(), rep.Verified, rep.TimesReported,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}
	return res.LastInsertId()
}

// IncrementTimesReported bumps the report counter
func (s *SQLiteStore) IncrementTimesReported(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE scam_reports SET times_reported = times_reported + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment report %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrReportNotFound
	}
	return nil
}

// Recent lists verified or repeatedly reported scams, newest first
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]models.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sqliteColumns+`
		FROM scam_reports
		WHERE verified = 1 OR times_reported > 3
		ORDER BY reported_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent reports: %w", err)
	}
	return collectSQLiteReports(rows)
}

// CountByURL counts reports that carried the given URL
func (s *SQLiteStore) CountByURL(ctx context.Context, url string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scam_reports WHERE url = ?`, url).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports by url: %w", err)
	}
	return count, nil
}

// CountByPhone counts reports that carried the given phone number
func (s *SQLiteStore) CountByPhone(ctx context.Context, phone string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scam_reports WHERE phone_number = ?`, phone).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports by phone: %w", err)
	}
	return count, nil
}

// Pending returns up to limit reports not yet pushed to the backend, oldest first
func (s *SQLiteStore) Pending(ctx context.Context, limit int) ([]models.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sqliteColumns+`
		FROM scam_reports
		WHERE synced = 0
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reports: %w", err)
	}
	return collectSQLiteReports(rows)
}

// MarkSynced flags the given reports as pushed to the backend
func (s *SQLiteStore) MarkSynced(ctx context.Context, ids []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE scam_reports SET synced = 1 WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare sync update: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("failed to mark report %d synced: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sync update: %w", err)
	}
	s.logger.Debug().Int("count", len(ids)).Msg("marked reports synced")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteReport(row rowScanner) (*models.Report, error) {
	var rep models.Report
	err := row.Scan(
		&rep.ID, &rep.Content, &rep.Type, &rep.PhoneNumber, &rep.URL,
		&rep.ReportedBy, &rep.ReportedAt, &rep.Verified, &rep.TimesReported, &rep.Synced,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func collectSQLiteReports(rows *sql.Rows) ([]models.Report, error) {
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		rep, err := scanSQLiteReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *rep)
	}
	return reports, rows.Err()
}
