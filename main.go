package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"transitcrm/internal/apiclient"
	intconfig "transitcrm/internal/config"
	router "transitcrm/internal/http"
	h "transitcrm/internal/http/handlers"
	"transitcrm/internal/services"
	"transitcrm/internal/session"
	"transitcrm/internal/web"
)

func main() {
	configPath := pflag.String("config", "", "optional YAML config file")
	addr := pflag.String("addr", "", "listen address, overrides APP_ADDR")
	pflag.Parse()

	env, err := intconfig.Load(*configPath)
	if err != nil {
		log.Fatalf("[CONFIG] action=load request_id=- msg=%v", err)
	}
	if *addr != "" {
		env.AppAddr = *addr
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(ctx, env)
	if err != nil {
		log.Fatalf("[SESSION] action=open_store request_id=- msg=%v", err)
	}
	if db != nil {
		defer db.Close()
		h.SetSessionDB(db)
	}

	pages, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("[WEB] action=parse_templates request_id=- msg=%v", err)
	}

	api := apiclient.New(env.APIBaseURL, env.APIKey, env.APITimeout)
	console := newConsole(api, session.NewManager(store, env.SessionTTL))
	r := router.NewRouter(console, pages)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("[HTTP] action=listen request_id=- msg=console on http://localhost%s api=%s", env.AppAddr, env.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[HTTP] action=listen request_id=- msg=%v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[HTTP] action=shutdown request_id=- msg=stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("[HTTP] action=shutdown request_id=- msg=%v", err)
	}

	log.Println("[HTTP] action=shutdown request_id=- msg=server stopped")
}

// openStore picks the session store; the MySQL store also returns its pool
// and keeps purging expired rows until ctx ends.
func openStore(ctx context.Context, env intconfig.Env) (session.Store, *sql.DB, error) {
	opts := session.CookieOptions{Secure: env.CookieSecure}
	switch env.SessionStore {
	case intconfig.StoreMySQL:
		db, err := intconfig.OpenDB(ctx, env.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		store := session.NewSQLStore(db, opts)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		go purgeSessions(ctx, store, sessionPurgeInterval)
		return store, db, nil
	case intconfig.StoreCookie:
		store, err := session.NewCookieStore([]byte(env.SessionSecret), opts)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", env.SessionStore)
	}
}

// sessionPurgeInterval is how often expired MySQL sessions are deleted.
const sessionPurgeInterval = time.Hour

func purgeSessions(ctx context.Context, store *session.SQLStore, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				log.Printf("[SESSION] action=purge request_id=- msg=%v", err)
				continue
			}
			log.Printf("[SESSION] action=purge request_id=- msg=removed %d expired sessions", n)
		}
	}
}

func newConsole(api apiclient.API, sessions *session.Manager) *h.Console {
	search := services.SearchService{API: api}
	return &h.Console{
		Sessions:   sessions,
		Auth:       services.AuthService{API: api},
		Customers:  services.CustomerService{API: api},
		Cards:      services.CardService{API: api},
		Trips:      services.TripService{API: api},
		Cases:      services.CaseService{API: api},
		Taps:       services.TapService{API: api},
		Disputes:   services.DisputeService{API: api},
		Search:     search,
		Register:   services.RegisterService{API: api},
		Statements: services.StatementService{Search: search},
	}
}
