package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSQLStoreSaveAndLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	store := NewSQLStore(db, CookieOptions{Name: "sid"})
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	mock.ExpectExec("INSERT INTO console_sessions").
		WithArgs(sqlmock.AnyArg(), "tok", "Ops", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := httptest.NewRecorder()
	sess := &Session{AccessToken: "tok", UserName: "Ops", ExpiresAt: expires}
	if err := store.Save(rec, httptest.NewRequest(http.MethodPost, "/login", nil), sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if sess.ID == "" {
		t.Fatalf("Save should assign an id")
	}

	mock.ExpectQuery(`SELECT access_token, user_name, expires_at\s+FROM console_sessions`).
		WithArgs(sess.ID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"access_token", "user_name", "expires_at"}).AddRow("tok", "Ops", expires))

	got, err := store.Load(replay(rec))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AccessToken != "tok" || got.UserName != "Ops" || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("loaded = %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSQLStoreExpiredRowIsAnonymous(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	id := "6f1c2a8e-2b5d-4a53-9a3e-aa0f5c7b9d11"
	mock.ExpectQuery("FROM console_sessions").
		WithArgs(id, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"access_token", "user_name", "expires_at"}))

	m := NewManager(NewSQLStore(db, CookieOptions{}), time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: id})
	if m.Initialize(req).Authenticated() {
		t.Fatalf("missing row should read as anonymous")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSQLStoreIgnoresNonUUIDCookie(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: "' OR 1=1 --"})
	if _, err := NewSQLStore(db, CookieOptions{}).Load(req); err != ErrNoSession {
		t.Fatalf("err = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query expected: %v", err)
	}
}

func TestSQLStoreClearDeletesRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	id := "6f1c2a8e-2b5d-4a53-9a3e-aa0f5c7b9d11"
	mock.ExpectExec("DELETE FROM console_sessions WHERE id").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: id})
	rec := httptest.NewRecorder()
	if err := NewSQLStore(db, CookieOptions{}).Clear(rec, req); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if c := rec.Result().Cookies(); len(c) != 1 || c[0].MaxAge >= 0 {
		t.Fatalf("cookie not expired: %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSQLStoreSchemaAndPurge(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS console_sessions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM console_sessions WHERE expires_at").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	store := NewSQLStore(db, CookieOptions{})
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	n, err := store.PurgeExpired(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("PurgeExpired = %d, %v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
