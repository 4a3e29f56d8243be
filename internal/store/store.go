// Package store provides SQLite-backed persistence for nudge.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/nudge/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrReminderNotFound indicates the reminder does not exist.
var ErrReminderNotFound = errors.New("reminder not found")

// Store provides access to the nudge SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Open with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL,
		task TEXT NOT NULL,
		due_at DATETIME,
		recur_freq TEXT,
		recur_weekday INTEGER,
		recur_hour INTEGER,
		recur_minute INTEGER,
		target_kind TEXT NOT NULL DEFAULT 'self',
		target_id TEXT,
		priority INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS intent_log (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL,
		intent TEXT NOT NULL,
		confidence REAL NOT NULL,
		locale TEXT NOT NULL,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reminders_author ON reminders(author_id);
	CREATE INDEX IF NOT EXISTS idx_reminders_status ON reminders(status);
	CREATE INDEX IF NOT EXISTS idx_reminders_due ON reminders(due_at);
	CREATE INDEX IF NOT EXISTS idx_intent_log_author ON intent_log(author_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Reminder Operations ---

// CreateReminder inserts a new pending reminder. DueAt may be nil for
// reminders stored without a due time.
func (s *Store) CreateReminder(authorID, task string, dueAt *time.Time, rec *models.RecurrenceSpec, target models.Target, priority int) (*models.Reminder, error) {
	now := time.Now().UTC()
	rem := &models.Reminder{
		ID:         uuid.New().String(),
		AuthorID:   authorID,
		Task:       task,
		DueAt:      dueAt,
		Recurrence: rec,
		Target:     target,
		Priority:   priority,
		Status:     models.ReminderPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var freq sql.NullString
	var weekday, hour, minute sql.NullInt64
	if rec != nil {
		freq = sql.NullString{String: string(rec.Frequency), Valid: true}
		weekday = sql.NullInt64{Int64: int64(rec.Weekday), Valid: true}
		hour = sql.NullInt64{Int64: int64(rec.Hour), Valid: true}
		minute = sql.NullInt64{Int64: int64(rec.Minute), Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO reminders (id, author_id, task, due_at, recur_freq, recur_weekday, recur_hour, recur_minute, target_kind, target_id, priority, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rem.ID, rem.AuthorID, rem.Task, dueAt, freq, weekday, hour, minute,
		rem.Target.Kind, rem.Target.ID, rem.Priority, rem.Status, rem.CreatedAt, rem.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reminder: %w", err)
	}
	return rem, nil
}

// GetReminder retrieves a reminder by ID. Returns nil when not found.
func (s *Store) GetReminder(id string) (*models.Reminder, error) {
	row := s.db.QueryRow(
		`SELECT id, author_id, task, due_at, recur_freq, recur_weekday, recur_hour, recur_minute, target_kind, target_id, priority, status, created_at, updated_at
		 FROM reminders WHERE id = ?`, id,
	)
	rem, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query reminder: %w", err)
	}
	return rem, nil
}

// ListReminders returns reminders, optionally filtered by author and status.
func (s *Store) ListReminders(authorID string, status models.ReminderStatus) ([]models.Reminder, error) {
	query := `SELECT id, author_id, task, due_at, recur_freq, recur_weekday, recur_hour, recur_minute, target_kind, target_id, priority, status, created_at, updated_at FROM reminders`
	var clauses []string
	var args []interface{}

	if authorID != "" {
		clauses = append(clauses, `author_id = ?`)
		args = append(args, authorID)
	}
	if status != "" {
		clauses = append(clauses, `status = ?`)
		args = append(args, status)
	}
	for i, c := range clauses {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var rems []models.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		rems = append(rems, *rem)
	}
	return rems, rows.Err()
}

// DueReminders returns pending reminders whose due time is at or before now.
func (s *Store) DueReminders(now time.Time) ([]models.Reminder, error) {
	rows, err := s.db.Query(
		`SELECT id, author_id, task, due_at, recur_freq, recur_weekday, recur_hour, recur_minute, target_kind, target_id, priority, status, created_at, updated_at
		 FROM reminders WHERE status = ? AND due_at IS NOT NULL AND due_at <= ? ORDER BY due_at ASC`,
		models.ReminderPending, now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query due reminders: %w", err)
	}
	defer rows.Close()

	var rems []models.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan due reminder: %w", err)
		}
		rems = append(rems, *rem)
	}
	return rems, rows.Err()
}

// MarkFired flips a reminder to fired.
func (s *Store) MarkFired(id string) error {
	return s.setStatus(id, models.ReminderFired)
}

// CancelReminder flips a reminder to cancelled.
func (s *Store) CancelReminder(id string) error {
	return s.setStatus(id, models.ReminderCancelled)
}

func (s *Store) setStatus(id string, status models.ReminderStatus) error {
	res, err := s.db.Exec(
		`UPDATE reminders SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update reminder status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrReminderNotFound
	}
	return nil
}

// RescheduleReminder moves a recurring reminder's due time to its next
// occurrence, keeping it pending.
func (s *Store) RescheduleReminder(id string, next time.Time) error {
	res, err := s.db.Exec(
		`UPDATE reminders SET due_at = ?, status = ?, updated_at = ? WHERE id = ?`,
		next.UTC(), models.ReminderPending, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("reschedule reminder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrReminderNotFound
	}
	return nil
}

// CountPending returns the number of pending reminders for an author.
func (s *Store) CountPending(authorID string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM reminders WHERE author_id = ? AND status = ?`,
		authorID, models.ReminderPending,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return n, nil
}

// --- Intent Log Operations ---

// LogIntent records one (intent, confidence) analytics entry.
func (s *Store) LogIntent(authorID string, intent models.Intent, confidence float64, locale string) (*models.IntentRecord, error) {
	rec := &models.IntentRecord{
		ID:         uuid.New().String(),
		AuthorID:   authorID,
		Intent:     intent,
		Confidence: confidence,
		Locale:     locale,
		Timestamp:  time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO intent_log (id, author_id, intent, confidence, locale, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.AuthorID, rec.Intent, rec.Confidence, rec.Locale, rec.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert intent log: %w", err)
	}
	return rec, nil
}

// RecentIntents returns the newest intent log entries, newest first.
func (s *Store) RecentIntents(limit int) ([]models.IntentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, author_id, intent, confidence, locale, timestamp FROM intent_log ORDER BY timestamp DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query intent log: %w", err)
	}
	defer rows.Close()

	var recs []models.IntentRecord
	for rows.Next() {
		var rec models.IntentRecord
		if err := rows.Scan(&rec.ID, &rec.AuthorID, &rec.Intent, &rec.Confidence, &rec.Locale, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan intent log: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReminder(row scanner) (*models.Reminder, error) {
	rem := &models.Reminder{}
	var dueAt sql.NullTime
	var freq, targetID sql.NullString
	var weekday, hour, minute sql.NullInt64

	err := row.Scan(&rem.ID, &rem.AuthorID, &rem.Task, &dueAt, &freq, &weekday, &hour, &minute,
		&rem.Target.Kind, &targetID, &rem.Priority, &rem.Status, &rem.CreatedAt, &rem.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if dueAt.Valid {
		t := dueAt.Time
		rem.DueAt = &t
	}
	if freq.Valid {
		rem.Recurrence = &models.RecurrenceSpec{
			Frequency: models.Frequency(freq.String),
			Weekday:   int(weekday.Int64),
			Hour:      int(hour.Int64),
			Minute:    int(minute.Int64),
		}
	}
	if targetID.Valid {
		rem.Target.ID = targetID.String
	}
	return rem, nil
}
