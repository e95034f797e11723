package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/patternworks/tess/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite. Each session is one row
// with the message list serialized as a JSON column.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens the database and runs migrations.
func NewSQLiteStore(dsn string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			mode TEXT NOT NULL,
			messages TEXT NOT NULL,
			imported_at INTEGER,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Put writes the full session record, overwriting any existing row.
// updated_at is refreshed on every write and serves as the
// last-modified clock for cleanup.
func (s *SQLiteStore) Put(ctx context.Context, id string, session *domain.Session) error {
	messages, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("%w: marshal messages: %v", domain.ErrStorage, err)
	}

	var importedAt sql.NullInt64
	if session.ImportedAt != 0 {
		importedAt = sql.NullInt64{Int64: session.ImportedAt, Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (session_id, title, created_at, mode, messages, imported_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, session.Title, session.CreatedAt, session.Mode, string(messages), importedAt, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: put session: %v", domain.ErrStorage, err)
	}
	return nil
}

// Get retrieves a session by id, returning (nil, nil) when absent.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var (
		session    domain.Session
		messages   string
		importedAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, title, created_at, mode, messages, imported_at FROM sessions WHERE session_id = ?`,
		id).Scan(&session.ID, &session.Title, &session.CreatedAt, &session.Mode, &messages, &importedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get session: %v", domain.ErrStorage, err)
	}
	if err := json.Unmarshal([]byte(messages), &session.Messages); err != nil {
		return nil, fmt.Errorf("%w: corrupt session record %s: %v", domain.ErrStorage, id, err)
	}
	if importedAt.Valid {
		session.ImportedAt = importedAt.Int64
	}
	return &session, nil
}

// Delete removes a session, reporting whether a row existed.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%w: delete session: %v", domain.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: delete session: %v", domain.ErrStorage, err)
	}
	return n > 0, nil
}

// List enumerates stored sessions as summaries. Rows whose message
// payload fails to parse are skipped with a warning.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, title, created_at, mode, messages FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("%w: list sessions: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var (
		summaries []domain.SessionSummary
		skipped   int
	)
	for rows.Next() {
		var (
			session  domain.Session
			messages string
		)
		if err := rows.Scan(&session.ID, &session.Title, &session.CreatedAt, &session.Mode, &messages); err != nil {
			return nil, fmt.Errorf("%w: list sessions: %v", domain.ErrStorage, err)
		}
		if err := json.Unmarshal([]byte(messages), &session.Messages); err != nil {
			s.logger.Warn("skipping corrupt session record",
				zap.String("session_id", session.ID),
				zap.Error(err))
			skipped++
			continue
		}
		summaries = append(summaries, session.Summarize())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list sessions: %v", domain.ErrStorage, err)
	}
	if skipped > 0 {
		s.logger.Warn("session listing skipped corrupt records", zap.Int("skipped", skipped))
	}
	return summaries, nil
}

// DeleteAll removes every session and returns the number removed.
func (s *SQLiteStore) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("%w: delete all sessions: %v", domain.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: delete all sessions: %v", domain.ErrStorage, err)
	}
	return int(n), nil
}

// DeleteOlderThan removes sessions not modified since cutoff.
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff int64) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: delete expired sessions: %v", domain.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: delete expired sessions: %v", domain.ErrStorage, err)
	}
	return int(n), nil
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
