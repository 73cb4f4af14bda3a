package session

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenthanhduc0901/clinic-app/internal/config"
	"github.com/nguyenthanhduc0901/clinic-app/internal/token"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/logger"
)

type fakeEvictor struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeEvictor) EvictAll() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeEvictor) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recorder struct {
	mu     sync.Mutex
	routes []string
}

func (r *recorder) redirect(route string) {
	r.mu.Lock()
	r.routes = append(r.routes, route)
	r.mu.Unlock()
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return ""
	}
	return r.routes[len(r.routes)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.routes)
}

func newTestSession(t *testing.T, settle time.Duration) (*Session, *token.Store, *fakeEvictor, *recorder) {
	t.Helper()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	tokens := token.NewStore(config.TokenConfig{Dir: t.TempDir()}, log)
	evictor := &fakeEvictor{}
	rec := &recorder{}
	sess := New(tokens, evictor, config.SessionConfig{SettleDelay: settle, GuardDebounce: 10 * time.Millisecond}, log, rec.redirect)
	return sess, tokens, evictor, rec
}

func TestLoadingUntilSettled(t *testing.T) {
	sess, tokens, _, _ := newTestSession(t, 30*time.Millisecond)
	require.NoError(t, tokens.Set("tok"))

	sess.Start()
	assert.True(t, sess.IsLoading())
	assert.False(t, sess.IsAuthenticated())

	assert.Eventually(t, func() bool {
		return !sess.IsLoading() && sess.IsAuthenticated()
	}, time.Second, 5*time.Millisecond)
}

func TestRefreshDerivesStateFromToken(t *testing.T) {
	sess, tokens, _, _ := newTestSession(t, time.Millisecond)

	assert.False(t, sess.Refresh())
	assert.False(t, sess.IsLoading())

	require.NoError(t, tokens.Set("tok"))
	assert.True(t, sess.Refresh())
	assert.True(t, sess.IsAuthenticated())
}

func TestLogoutClearsEverything(t *testing.T) {
	sess, tokens, evictor, rec := newTestSession(t, time.Millisecond)
	require.NoError(t, tokens.Set("tok"))
	sess.Refresh()

	sess.Logout()

	assert.Empty(t, tokens.Get())
	assert.Equal(t, 1, evictor.count())
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, LoginRoute, rec.last())
}

func TestHandleExpiredEvictsAndRedirects(t *testing.T) {
	sess, tokens, evictor, rec := newTestSession(t, time.Millisecond)
	require.NoError(t, tokens.Set("tok"))
	sess.Refresh()

	// The API client clears the credential before invoking the hook.
	tokens.Clear()
	sess.HandleExpired()

	assert.Equal(t, 1, evictor.count())
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, LoginRoute, rec.last())
}

func TestDecide(t *testing.T) {
	sess, tokens, _, _ := newTestSession(t, time.Millisecond)

	// No decisions while the initial check is pending.
	assert.Equal(t, "", sess.Decide(RouteGroupProtected))

	sess.Refresh()
	assert.Equal(t, LoginRoute, sess.Decide(RouteGroupProtected))
	assert.Equal(t, "", sess.Decide(RouteGroupAuth))
	assert.Equal(t, "", sess.Decide(RouteGroupPublic))

	require.NoError(t, tokens.Set("tok"))
	sess.Refresh()
	assert.Equal(t, "", sess.Decide(RouteGroupProtected))
	assert.Equal(t, HomeRoute, sess.Decide(RouteGroupAuth))
	assert.Equal(t, "", sess.Decide(RouteGroupPublic))
}

func TestGuardDebounceKeepsOnlyLastDecision(t *testing.T) {
	sess, _, _, _ := newTestSession(t, time.Millisecond)
	sess.Refresh() // unauthenticated

	rec := &recorder{}
	guard := NewGuard(sess, 20*time.Millisecond, rec.redirect)
	defer guard.Stop()

	// Rapid-fire evaluations; only the final one may fire.
	guard.Evaluate(RouteGroupProtected)
	guard.Evaluate(RouteGroupAuth)
	guard.Evaluate(RouteGroupProtected)

	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, LoginRoute, rec.last())

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestGuardStopCancelsPending(t *testing.T) {
	sess, _, _, _ := newTestSession(t, time.Millisecond)
	sess.Refresh()

	rec := &recorder{}
	guard := NewGuard(sess, 20*time.Millisecond, rec.redirect)
	guard.Evaluate(RouteGroupProtected)
	guard.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestTokenExpiresAt(t *testing.T) {
	sess, tokens, _, _ := newTestSession(t, time.Millisecond)

	_, ok := sess.TokenExpiresAt()
	assert.False(t, ok)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	require.NoError(t, tokens.Set(signed))

	got, ok := sess.TokenExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	require.NoError(t, tokens.Set("not-a-jwt"))
	_, ok = sess.TokenExpiresAt()
	assert.False(t, ok)
}
