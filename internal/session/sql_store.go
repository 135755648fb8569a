package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const createSessionsTable = `CREATE TABLE IF NOT EXISTS console_sessions (
	id VARCHAR(36) NOT NULL PRIMARY KEY,
	access_token TEXT NOT NULL,
	user_name VARCHAR(255) NOT NULL,
	expires_at DATETIME NOT NULL,
	INDEX idx_console_sessions_expires (expires_at)
)`

// SQLStore keeps sessions in MySQL; the cookie only carries a random id.
type SQLStore struct {
	db   *sql.DB
	opts CookieOptions
	now  func() time.Time
}

func NewSQLStore(db *sql.DB, opts CookieOptions) *SQLStore {
	return &SQLStore{db: db, opts: opts.withDefaults(), now: time.Now}
}

func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("create console_sessions: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(s.opts.Name)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return nil, ErrNoSession
	}

	sess := &Session{ID: c.Value}
	err = s.db.QueryRowContext(r.Context(), `
		SELECT access_token, user_name, expires_at
		FROM console_sessions
		WHERE id = ? AND expires_at > ?
	`, c.Value, s.now().UTC()).Scan(&sess.AccessToken, &sess.UserName, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

func (s *SQLStore) Save(w http.ResponseWriter, r *http.Request, sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(r.Context(), `
		INSERT INTO console_sessions (id, access_token, user_name, expires_at)
		VALUES (?, ?, ?, ?)
	`, sess.ID, sess.AccessToken, sess.UserName, sess.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	http.SetCookie(w, s.opts.cookie(sess.ID, sess.ExpiresAt))
	return nil
}

func (s *SQLStore) Clear(w http.ResponseWriter, r *http.Request) error {
	defer http.SetCookie(w, s.opts.cookie("", time.Time{}))
	c, err := r.Cookie(s.opts.Name)
	if err != nil || c.Value == "" {
		return nil
	}
	if _, err := s.db.ExecContext(r.Context(), `DELETE FROM console_sessions WHERE id = ?`, c.Value); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes rows past their expiry and reports how many went.
func (s *SQLStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM console_sessions WHERE expires_at <= ?`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}
