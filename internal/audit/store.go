// Package audit persists a log of outbound API requests to SQLite so
// failures and rate-limit patterns can be inspected after the fact.
package audit

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/booksmcp/booksmcp/internal/zoho"
)

const schema = `
CREATE TABLE IF NOT EXISTS request_log (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	method TEXT NOT NULL,
	endpoint TEXT NOT NULL,
	status_code INTEGER NOT NULL,
	error_kind TEXT,
	request_id TEXT NOT NULL,
	retried INTEGER NOT NULL,
	latency_ms INTEGER
);

CREATE INDEX IF NOT EXISTS idx_request_endpoint ON request_log(endpoint);
CREATE INDEX IF NOT EXISTS idx_request_error ON request_log(error_kind);
CREATE INDEX IF NOT EXISTS idx_request_timestamp ON request_log(timestamp);
`

// Store manages the SQLite request log.
type Store struct {
	db     *sql.DB
	writes chan Entry
	done   chan struct{}
	logger *slog.Logger
}

// NewStore opens (or creates) the SQLite request log database.
func NewStore(dbPath string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening request log db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("setting WAL mode: %w (also: close: %v)", err, cerr)
		}
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("creating schema: %w (also: close: %v)", err, cerr)
		}
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &Store{
		db:     db,
		writes: make(chan Entry, 256),
		done:   make(chan struct{}),
		logger: logger,
	}

	go s.writeLoop()
	return s, nil
}

// Record implements zoho.RequestLogger. It enqueues the attempt for
// async writing and never blocks the request path.
func (s *Store) Record(r zoho.RequestRecord) {
	retried := 0
	if r.Retried {
		retried = 1
	}
	s.Log(Entry{
		ID:         uuid.NewString(),
		Timestamp:  r.Timestamp.UTC().Format(time.RFC3339),
		Method:     r.Method,
		Endpoint:   r.Endpoint,
		StatusCode: r.StatusCode,
		ErrorKind:  r.ErrorKind,
		RequestID:  r.RequestID,
		Retried:    retried,
		LatencyMs:  r.LatencyMs,
	})
}

// Log enqueues a request log entry for async writing.
func (s *Store) Log(entry Entry) {
	select {
	case s.writes <- entry:
	default:
		s.logger.Warn("request log buffer full, dropping entry", "id", entry.ID)
	}
}

// Query returns request log entries matching the given filters.
func (s *Store) Query(opts QueryOpts) ([]Entry, error) {
	query := "SELECT id, timestamp, method, endpoint, status_code, error_kind, request_id, retried, latency_ms FROM request_log WHERE 1=1"
	var args []any

	if opts.Method != "" {
		query += " AND method = ?"
		args = append(args, opts.Method)
	}
	if opts.Endpoint != "" {
		query += " AND endpoint = ?"
		args = append(args, opts.Endpoint)
	}
	if opts.ErrorKind != "" {
		query += " AND error_kind = ?"
		args = append(args, opts.ErrorKind)
	}
	if opts.Failed {
		query += " AND status_code >= 400"
	}
	if opts.Since != "" {
		query += " AND timestamp >= ?"
		args = append(args, opts.Since)
	}

	query += " ORDER BY timestamp DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	} else {
		query += " LIMIT 50"
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying request log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind sql.NullString
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Method, &e.Endpoint, &e.StatusCode,
			&kind, &e.RequestID, &e.Retried, &e.LatencyMs); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.ErrorKind = kind.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// EndpointStats returns per-endpoint request and failure counts.
func (s *Store) EndpointStats() ([]EndpointStat, error) {
	rows, err := s.db.Query(
		`SELECT endpoint, COUNT(*), SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END)
		 FROM request_log GROUP BY endpoint ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying endpoint stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []EndpointStat
	for rows.Next() {
		var st EndpointStat
		if err := rows.Scan(&st.Endpoint, &st.Count, &st.Failures); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// Close flushes pending writes and closes the database.
func (s *Store) Close() error {
	close(s.writes)
	<-s.done
	return s.db.Close()
}

func (s *Store) writeLoop() {
	defer close(s.done)
	for entry := range s.writes {
		_, err := s.db.Exec(
			`INSERT INTO request_log (id, timestamp, method, endpoint, status_code, error_kind, request_id, retried, latency_ms) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.Timestamp, entry.Method, entry.Endpoint, entry.StatusCode,
			entry.ErrorKind, entry.RequestID, entry.Retried, entry.LatencyMs,
		)
		if err != nil {
			s.logger.Error("request log write failed", "id", entry.ID, "error", err)
		}
	}
}
