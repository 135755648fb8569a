package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvLocal    = "local"
	EnvDeployed = "deployed"

	StoreCookie = "cookie"
	StoreMySQL  = "mysql"

	localAPIBaseURL    = "http://127.0.0.1:8000"
	deployedAPIBaseURL = "https://crm-n577.onrender.com"
)

type Env struct {
	AppAddr string `yaml:"app_addr"`
	GinMode string `yaml:"gin_mode"`
	AppEnv  string `yaml:"app_env"`

	APIBaseURL string        `yaml:"api_base_url"`
	APIKey     string        `yaml:"api_key"`
	APITimeout time.Duration `yaml:"api_timeout"`

	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SessionStore  string        `yaml:"session_store"`
	CookieSecure  bool          `yaml:"cookie_secure"`

	DBDSN string `yaml:"db_dsn"`
}

// Default returns the baseline configuration before file and env overrides.
func Default() Env {
	return Env{
		AppAddr:      ":8080",
		AppEnv:       EnvLocal,
		APITimeout:   15 * time.Second,
		SessionTTL:   12 * time.Hour,
		SessionStore: StoreCookie,
	}
}

// Load layers defaults, an optional YAML file and the process environment.
func Load(path string) (Env, error) {
	env := Default()
	if strings.TrimSpace(path) != "" {
		if err := env.mergeFile(path); err != nil {
			return env, err
		}
	}
	if err := env.mergeEnv(os.LookupEnv); err != nil {
		return env, err
	}
	env.resolveAPIBaseURL()
	return env, env.Validate()
}

// LoadEnv keeps the env-only entrypoint; invalid values fall back to defaults.
func LoadEnv() Env {
	env := Default()
	_ = env.mergeEnv(os.LookupEnv)
	env.resolveAPIBaseURL()
	return env
}

func (e *Env) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, e); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (e *Env) mergeEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("APP_ADDR"); ok {
		e.AppAddr = v
	}
	if v, ok := get("GIN_MODE"); ok {
		e.GinMode = v
	}
	if v, ok := get("APP_ENV"); ok {
		e.AppEnv = strings.ToLower(v)
	}
	if v, ok := get("API_BASE_URL"); ok {
		e.APIBaseURL = v
	}
	if v, ok := get("API_KEY"); ok {
		e.APIKey = v
	}
	if v, ok := get("API_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid API_TIMEOUT: %w", err)
		}
		e.APITimeout = d
	}
	if v, ok := get("SESSION_SECRET"); ok {
		e.SessionSecret = v
	}
	if v, ok := get("SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		e.SessionTTL = d
	}
	if v, ok := get("SESSION_STORE"); ok {
		e.SessionStore = strings.ToLower(v)
	}
	if v, ok := get("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid COOKIE_SECURE: %w", err)
		}
		e.CookieSecure = b
	}
	if v, ok := get("DB_DSN"); ok {
		e.DBDSN = v
	}
	return nil
}

// resolveAPIBaseURL picks the remote API host from APP_ENV when no explicit URL is set.
func (e *Env) resolveAPIBaseURL() {
	e.APIBaseURL = strings.TrimRight(strings.TrimSpace(e.APIBaseURL), "/")
	if e.APIBaseURL != "" {
		return
	}
	if e.AppEnv == EnvDeployed {
		e.APIBaseURL = deployedAPIBaseURL
		return
	}
	e.APIBaseURL = localAPIBaseURL
}

func (e Env) Validate() error {
	var errs []error
	if strings.TrimSpace(e.APIKey) == "" {
		errs = append(errs, errors.New("API_KEY is required"))
	}
	if len(e.SessionSecret) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 16 bytes"))
	}
	switch e.SessionStore {
	case StoreCookie:
	case StoreMySQL:
		if strings.TrimSpace(e.DBDSN) == "" {
			errs = append(errs, errors.New("DB_DSN is required when SESSION_STORE=mysql"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORE %q", e.SessionStore))
	}
	if e.AppEnv != EnvLocal && e.AppEnv != EnvDeployed {
		errs = append(errs, fmt.Errorf("unknown APP_ENV %q", e.AppEnv))
	}
	if e.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	return errors.Join(errs...)
}
