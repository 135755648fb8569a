package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	signInfo = "transitcrm session signing"
	sealInfo = "transitcrm session sealing"
)

type cookieClaims struct {
	Name  string `json:"name"`
	Token string `json:"tok"`
	jwt.RegisteredClaims
}

// CookieStore keeps the whole session in an HS256 JWT cookie. The upstream
// token is sealed with secretbox so the browser never sees it.
type CookieStore struct {
	opts    CookieOptions
	signKey []byte
	sealKey [32]byte
}

func NewCookieStore(secret []byte, opts CookieOptions) (*CookieStore, error) {
	if len(secret) < 16 {
		return nil, errors.New("session secret must be at least 16 bytes")
	}
	s := &CookieStore{opts: opts.withDefaults(), signKey: make([]byte, 32)}
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(signInfo)), s.signKey); err != nil {
		return nil, fmt.Errorf("derive signing key: %w", err)
	}
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(sealInfo)), s.sealKey[:]); err != nil {
		return nil, fmt.Errorf("derive sealing key: %w", err)
	}
	return s, nil
}

func (s *CookieStore) seal(plain string) (string, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.sealKey)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

func (s *CookieStore) open(sealed string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(raw) < 24 {
		return "", errors.New("malformed sealed token")
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	plain, ok := secretbox.Open(nil, raw[24:], &nonce, &s.sealKey)
	if !ok {
		return "", errors.New("sealed token rejected")
	}
	return string(plain), nil
}

func (s *CookieStore) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(s.opts.Name)
	if err != nil {
		return nil, ErrNoSession
	}

	var claims cookieClaims
	_, err = jwt.ParseWithClaims(c.Value, &claims, func(*jwt.Token) (any, error) {
		return s.signKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse session cookie: %w", err)
	}

	token, err := s.open(claims.Token)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:          claims.ID,
		AccessToken: token,
		UserName:    claims.Name,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

func (s *CookieStore) Save(w http.ResponseWriter, _ *http.Request, sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	sealed, err := s.seal(sess.AccessToken)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}
	claims := cookieClaims{
		Name:  sess.UserName,
		Token: sealed,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, s.opts.cookie(signed, sess.ExpiresAt))
	return nil
}

func (s *CookieStore) Clear(w http.ResponseWriter, _ *http.Request) error {
	http.SetCookie(w, s.opts.cookie("", time.Time{}))
	return nil
}
