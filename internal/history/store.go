// internal/history/store.go
package history

import (
	"database/sql"
	"time"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

// DefaultLimit is how many messages are kept per receiver when no limit is set.
const DefaultLimit = 200

// Store manages sent-message persistence
type Store struct {
	db    *sql.DB
	limit int
}

// DefaultPath is the XDG data location of the history database
func DefaultPath() (string, error) {
	return xdg.DataFile("talkup/history.db")
}

// NewID returns a fresh, time-ordered message id
func NewID() string {
	return ulid.Make().String()
}

// NewStore opens or creates the history database at path
func NewStore(path string, limit int) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Apply SQLite pragmas
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			receiver_id TEXT NOT NULL,
			text TEXT NOT NULL,
			has_image INTEGER NOT NULL DEFAULT 0,
			sent_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{db: db, limit: limit}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records a sent message. An empty ID is filled in.
func (s *Store) Add(e *Entry) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.SentAt.IsZero() {
		e.SentAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO messages (id, receiver_id, text, has_image, sent_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.ReceiverID, e.Text, e.HasImage, e.SentAt.UTC())
	if err != nil {
		return err
	}
	return s.enforceLimit(e.ReceiverID)
}

// enforceLimit keeps only the most recent messages per receiver
func (s *Store) enforceLimit(receiverID string) error {
	_, err := s.db.Exec(`
		DELETE FROM messages
		WHERE receiver_id = ?
		AND id NOT IN (
			SELECT id FROM messages
			WHERE receiver_id = ?
			ORDER BY id DESC
			LIMIT ?
		)
	`, receiverID, receiverID, s.limit)
	return err
}

// List returns messages for a receiver, newest first
func (s *Store) List(receiverID string, limit, offset int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, receiver_id, text, has_image, sent_at
		FROM messages
		WHERE receiver_id = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, receiverID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ReceiverID, &e.Text, &e.HasImage, &e.SentAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored messages for a receiver
func (s *Store) Count(receiverID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE receiver_id = ?`, receiverID).Scan(&count)
	return count, err
}
