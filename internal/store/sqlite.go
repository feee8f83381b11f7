// Package store persists parsed message collections: a SQLite store for
// incremental workflows and a JSON file round-trip for portable exports.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pkg/errors"

	"github.com/you/chatmetrics/internal/core"
)

const schema = `CREATE TABLE IF NOT EXISTS messages (
  author TEXT NOT NULL,
  ts TEXT NOT NULL,
  message_json TEXT NOT NULL,
  PRIMARY KEY (author, ts, message_json)
);`

// SQLiteStore keeps a parsed collection in a single-table SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed initializes) the store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	if _, err := db.Exec(`PRAGMA journal_mode=wal;`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "set WAL")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Ping() error { return s.db.Ping() }

// Replace drops the stored collection and writes msgs in its place.
func (s *SQLiteStore) Replace(ctx context.Context, msgs []core.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages;`); err != nil {
		return errors.Wrap(err, "clear messages")
	}

	const q = `INSERT INTO messages (author, ts, message_json) VALUES (?, ?, ?)
ON CONFLICT(author, ts, message_json) DO NOTHING;`
	for _, msg := range msgs {
		payload, err := json.Marshal(msg.Message)
		if err != nil {
			return errors.Wrap(err, "encode message")
		}
		ts := msg.Timestamp.Format(time.RFC3339)
		if _, err := tx.ExecContext(ctx, q, msg.Author, ts, string(payload)); err != nil {
			return errors.Wrap(err, "insert message")
		}
	}

	return errors.Wrap(tx.Commit(), "commit")
}

// Load reads the stored collection back, in timestamp order.
func (s *SQLiteStore) Load(ctx context.Context) ([]core.Message, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT author, ts, message_json FROM messages ORDER BY ts ASC;`)
	if err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	defer rows.Close()

	var out []core.Message
	for rows.Next() {
		var (
			msg     core.Message
			ts      string
			payload string
		)
		if err := rows.Scan(&msg.Author, &ts, &payload); err != nil {
			return nil, errors.Wrap(err, "scan message")
		}
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, errors.Wrap(err, "parse timestamp")
		}
		msg.Timestamp = t.Local()
		if err := json.Unmarshal([]byte(payload), &msg.Message); err != nil {
			return nil, errors.Wrap(err, "decode message")
		}
		out = append(out, msg)
	}
	return out, errors.Wrap(rows.Err(), "iterate messages")
}

// Count reports the stored message count.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages;`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count")
	}
	return n, nil
}
