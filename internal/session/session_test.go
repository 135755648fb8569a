package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef-test-secret")

func newCookieStore(t *testing.T) *CookieStore {
	t.Helper()
	s, err := NewCookieStore(testSecret, CookieOptions{})
	if err != nil {
		t.Fatalf("NewCookieStore: %v", err)
	}
	return s
}

// replay copies Set-Cookie headers from rec onto a fresh request.
func replay(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestAuthenticated(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		s    *Session
		want bool
	}{
		{"nil", nil, false},
		{"empty", &Session{}, false},
		{"token only", &Session{AccessToken: "t"}, false},
		{"name only", &Session{UserName: "n"}, false},
		{"both", &Session{AccessToken: "t", UserName: "n", ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", &Session{AccessToken: "t", UserName: "n", ExpiresAt: now.Add(-time.Second)}, false},
	}
	for _, tc := range cases {
		if got := tc.s.authenticatedAt(now); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestCookieStoreRoundTrip(t *testing.T) {
	m := NewManager(newCookieStore(t), time.Hour)

	rec := httptest.NewRecorder()
	if _, err := m.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "upstream-token", "Ops"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}
	if strings.Contains(cookies[0].Value, "upstream-token") {
		t.Fatalf("cookie leaks the upstream token")
	}

	s := m.Initialize(replay(rec))
	if !s.Authenticated() || s.AccessToken != "upstream-token" || s.UserName != "Ops" {
		t.Fatalf("session = %+v", s)
	}
}

func TestCookieStoreRejectsTampering(t *testing.T) {
	store := newCookieStore(t)
	m := NewManager(store, time.Hour)
	rec := httptest.NewRecorder()
	if _, err := m.Login(rec, httptest.NewRequest(http.MethodPost, "/", nil), "tok", "Ops"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	c := rec.Result().Cookies()[0]

	tampered := httptest.NewRequest(http.MethodGet, "/", nil)
	tampered.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value[:len(c.Value)-2] + "xx"})
	if m.Initialize(tampered).Authenticated() {
		t.Fatalf("tampered cookie accepted")
	}

	other, _ := NewCookieStore([]byte("another-secret-of-sixteen"), CookieOptions{})
	if _, err := other.Load(replay(rec)); err == nil {
		t.Fatalf("cookie signed with a different secret accepted")
	}
}

func TestCookieStoreExpiry(t *testing.T) {
	m := NewManager(newCookieStore(t), time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	rec := httptest.NewRecorder()
	if _, err := m.Login(rec, httptest.NewRequest(http.MethodPost, "/", nil), "tok", "Ops"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	m.now = time.Now
	if m.Initialize(replay(rec)).Authenticated() {
		t.Fatalf("expired session accepted")
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	m := NewManager(newCookieStore(t), time.Hour)
	rec := httptest.NewRecorder()
	if err := m.Logout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil)); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	c := rec.Result().Cookies()
	if len(c) != 1 || c[0].MaxAge >= 0 || c[0].Value != "" {
		t.Fatalf("logout cookie = %+v", c)
	}
}

func TestLoginRequiresBothValues(t *testing.T) {
	m := NewManager(newCookieStore(t), time.Hour)
	if _, err := m.Login(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), "tok", " "); err == nil {
		t.Fatalf("expected error for blank user name")
	}
}

func TestShortSecretRejected(t *testing.T) {
	if _, err := NewCookieStore([]byte("short"), CookieOptions{}); err == nil {
		t.Fatalf("expected error")
	}
}
