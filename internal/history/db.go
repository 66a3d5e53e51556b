package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one completed auth operation. It holds no session data: success
// rows carry no message, and response payloads are never stored.
type Entry struct {
	ID        string
	Operation string
	OK        bool
	Status    int
	Message   string
	Duration  time.Duration
	CreatedAt time.Time
}

// DB is the local activity log. A nil *DB records nothing.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite activity log and runs migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	return d.db.Close()
}

func migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS activity (
			id TEXT PRIMARY KEY,
			operation TEXT NOT NULL,
			ok INTEGER NOT NULL,
			status INTEGER NOT NULL DEFAULT 0,
			message TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_created ON activity(created_at)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// Record stores an entry, filling in ID and CreatedAt when unset.
func (d *DB) Record(e Entry) error {
	if d == nil {
		return nil
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.OK {
		e.Message = ""
	}
	_, err := d.db.Exec(`INSERT INTO activity (id, operation, ok, status, message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Operation, boolInt(e.OK), e.Status, nullStr(e.Message),
		e.Duration.Milliseconds(), e.CreatedAt.UnixMilli())
	return err
}

// Recent returns up to limit entries, newest first.
func (d *DB) Recent(limit int) ([]Entry, error) {
	if d == nil {
		return nil, nil
	}
	rows, err := d.db.Query(`SELECT id, operation, ok, status, message, duration_ms, created_at
		FROM activity ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		var ok int
		var message sql.NullString
		var durationMS, createdAt int64
		if err := rows.Scan(&e.ID, &e.Operation, &ok, &e.Status, &message, &durationMS, &createdAt); err != nil {
			return nil, err
		}
		e.OK = ok != 0
		e.Message = message.String
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.CreatedAt = time.UnixMilli(createdAt)
		result = append(result, e)
	}
	return result, rows.Err()
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
