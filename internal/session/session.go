// Package session keeps the signed-in operator's upstream token and display
// name behind the cookie boundary.
package session

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

type Session struct {
	ID          string
	AccessToken string
	UserName    string
	ExpiresAt   time.Time
}

// Authenticated requires both values and an unexpired session.
func (s *Session) Authenticated() bool {
	return s.authenticatedAt(time.Now())
}

func (s *Session) authenticatedAt(now time.Time) bool {
	if s == nil {
		return false
	}
	if strings.TrimSpace(s.AccessToken) == "" || strings.TrimSpace(s.UserName) == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// Store persists sessions across requests.
type Store interface {
	Load(r *http.Request) (*Session, error)
	Save(w http.ResponseWriter, r *http.Request, s *Session) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

var ErrNoSession = errors.New("no session")

type CookieOptions struct {
	Name   string
	Path   string
	Secure bool
}

func (o CookieOptions) withDefaults() CookieOptions {
	if o.Name == "" {
		o.Name = "console_session"
	}
	if o.Path == "" {
		o.Path = "/"
	}
	return o
}

func (o CookieOptions) cookie(value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     o.Name,
		Value:    value,
		Path:     o.Path,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		return c
	}
	c.Expires = expires
	return c
}

// Manager is the session lifecycle handed to the route layer.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

// Initialize rehydrates the session; any failure yields an anonymous session.
func (m *Manager) Initialize(r *http.Request) *Session {
	s, err := m.store.Load(r)
	if err != nil || s == nil || !s.authenticatedAt(m.now()) {
		return &Session{}
	}
	return s
}

func (m *Manager) Login(w http.ResponseWriter, r *http.Request, token, name string) (*Session, error) {
	s := &Session{
		AccessToken: token,
		UserName:    name,
		ExpiresAt:   m.now().Add(m.ttl).UTC().Truncate(time.Second),
	}
	if !s.authenticatedAt(m.now()) {
		return nil, errors.New("login requires token and user name")
	}
	if err := m.store.Save(w, r, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	return m.store.Clear(w, r)
}
