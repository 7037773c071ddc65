// Package session keeps the admin token of each browser session.
//
// The token is the only state shared between the login flow, the route guard and the
// admin console. Only the login flow writes it (Set); sign-out and the handling of an
// authorization-denied response remove it (Clear). Everything else reads.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	// TokenKey is the one persisted value: the admin key issued by the content API.
	TokenKey  = "adminToken"
	clientKey = "clientID"
)

var ErrEmptyToken = errors.New("session: empty token")

// Store is the session token contract.
type Store interface {
	Get(ctx context.Context) (string, bool)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Manager implements Store on top of an scs session.
type Manager struct {
	sm *scs.SessionManager
}

func NewManager(sm *scs.SessionManager) *Manager {
	return &Manager{sm: sm}
}

// Get returns the token of the session in ctx. The value is read on every call;
// callers must not remember the result across requests.
func (m *Manager) Get(ctx context.Context) (string, bool) {
	token := strings.TrimSpace(m.sm.GetString(ctx, TokenKey))
	return token, token != ""
}

// Set stores token and renews the session id.
func (m *Manager) Set(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := m.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session: %w", err)
	}
	m.sm.Put(ctx, TokenKey, token)
	return nil
}

// Clear removes the token. Clearing an anonymous session is a no-op.
func (m *Manager) Clear(ctx context.Context) error {
	if !m.sm.Exists(ctx, TokenKey) {
		return nil
	}
	m.sm.Remove(ctx, TokenKey)
	if err := m.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session: %w", err)
	}
	return nil
}

// ClientID is a stable random id for the browser session, created on first use.
// It survives login and logout, unlike the scs token.
func (m *Manager) ClientID(ctx context.Context) string {
	if id := m.sm.GetString(ctx, clientKey); id != "" {
		return id
	}
	id := uuid.NewString()
	m.sm.Put(ctx, clientKey, id)
	return id
}

// LoadAndSave is the net/http middleware that loads the session for each request.
func (m *Manager) LoadAndSave(next http.Handler) http.Handler {
	return m.sm.LoadAndSave(next)
}

// New creates the scs session manager backed by db.
func New(db *sql.DB, lifetime time.Duration, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = lifetime
	sm.Cookie.Name = "portfolio_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	sm.Cookie.Persist = true
	return sm
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

// OpenDB opens (creating if needed) the SQLite database that persists sessions.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating session dir: %w", err)
		}
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating sessions table: %w", err)
	}
	return db, nil
}
