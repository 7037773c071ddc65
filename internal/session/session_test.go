package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedContext(t *testing.T, sm *scs.SessionManager, token string) context.Context {
	t.Helper()
	ctx, err := sm.Load(context.Background(), token)
	require.NoError(t, err)
	return ctx
}

func newMemoryManager() (*Manager, *scs.SessionManager) {
	sm := scs.New()
	sm.Store = memstore.New()
	return NewManager(sm), sm
}

func TestManager_SetGetClear(t *testing.T) {
	m, sm := newMemoryManager()
	ctx := loadedContext(t, sm, "")

	_, ok := m.Get(ctx)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "  key-123 "))
	token, ok := m.Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, "key-123", token)

	require.NoError(t, m.Clear(ctx))
	_, ok = m.Get(ctx)
	assert.False(t, ok)
}

func TestManager_SetRejectsEmpty(t *testing.T) {
	m, sm := newMemoryManager()
	ctx := loadedContext(t, sm, "")

	assert.ErrorIs(t, m.Set(ctx, "   "), ErrEmptyToken)
}

func TestManager_ClearWithoutTokenIsNoop(t *testing.T) {
	m, sm := newMemoryManager()
	ctx := loadedContext(t, sm, "")

	assert.NoError(t, m.Clear(ctx))
}

func TestManager_TokenSurvivesReload(t *testing.T) {
	m, sm := newMemoryManager()
	ctx := loadedContext(t, sm, "")
	require.NoError(t, m.Set(ctx, "persisted"))

	sessionToken, _, err := sm.Commit(ctx)
	require.NoError(t, err)

	reloaded := loadedContext(t, sm, sessionToken)
	token, ok := m.Get(reloaded)
	assert.True(t, ok)
	assert.Equal(t, "persisted", token)
}

func TestManager_ClientIDIsStable(t *testing.T) {
	m, sm := newMemoryManager()
	ctx := loadedContext(t, sm, "")

	id := m.ClientID(ctx)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, m.ClientID(ctx))

	require.NoError(t, m.Set(ctx, "k"))
	require.NoError(t, m.Clear(ctx))
	assert.Equal(t, id, m.ClientID(ctx))
}

func TestNew_CookieSettings(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	dev := New(db, time.Hour, true)
	assert.False(t, dev.Cookie.Secure)
	assert.True(t, dev.Cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, dev.Cookie.SameSite)
	assert.Equal(t, time.Hour, dev.Lifetime)

	prod := New(db, time.Hour, false)
	assert.True(t, prod.Cookie.Secure)
}

func TestSQLiteStore_PersistsToken(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sm := New(db, time.Hour, true)
	m := NewManager(sm)

	ctx := loadedContext(t, sm, "")
	require.NoError(t, m.Set(ctx, "sqlite-token"))
	sessionToken, _, err := sm.Commit(ctx)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count))
	assert.Equal(t, 1, count)

	token, ok := m.Get(loadedContext(t, sm, sessionToken))
	assert.True(t, ok)
	assert.Equal(t, "sqlite-token", token)
}
