package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nguyenthanhduc0901/clinic-app/internal/config"
	"github.com/nguyenthanhduc0901/clinic-app/internal/token"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/logger"
)

// CacheEvictor is what the session needs from the query layer: a way to
// drop all auth-scoped cached data.
type CacheEvictor interface {
	EvictAll()
}

// LoginRoute is where forced and voluntary logouts land.
const LoginRoute = "/login"

// Session derives the authentication state from credential presence and
// owns logout. The redirect function is supplied by the embedding app; the
// SDK itself cannot navigate.
type Session struct {
	tokens      *token.Store
	cache       CacheEvictor
	log         *logger.Logger
	settleDelay time.Duration
	redirect    func(route string)

	mu              sync.RWMutex
	isLoading       bool
	isAuthenticated bool
}

func New(tokens *token.Store, cache CacheEvictor, cfg config.SessionConfig, log *logger.Logger, redirect func(route string)) *Session {
	if redirect == nil {
		redirect = func(string) {}
	}
	return &Session{
		tokens:      tokens,
		cache:       cache,
		log:         log.WithComponent("session"),
		settleDelay: cfg.SettleDelay,
		redirect:    redirect,
		isLoading:   true,
	}
}

// Start schedules the initial auth check. The settle delay avoids racing
// storage initialization during app startup; IsLoading stays true until
// the check completes.
func (s *Session) Start() {
	go func() {
		time.Sleep(s.settleDelay)
		s.Refresh()
	}()
}

// Refresh re-derives the authentication state from the token store.
func (s *Session) Refresh() bool {
	authed := s.tokens.Get() != ""

	s.mu.Lock()
	s.isAuthenticated = authed
	s.isLoading = false
	s.mu.Unlock()

	return authed
}

func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAuthenticated
}

// Logout clears the credential, evicts every auth-scoped cache entry and
// redirects to the login entry point. It completes even when the storage
// clear partially fails; the store logs and continues.
func (s *Session) Logout() {
	s.tokens.Clear()
	s.cache.EvictAll()

	s.mu.Lock()
	s.isAuthenticated = false
	s.isLoading = false
	s.mu.Unlock()

	s.redirect(LoginRoute)
}

// HandleExpired is wired as the API client's session-expired hook. The
// client has already cleared the credential by the time this fires.
func (s *Session) HandleExpired() {
	s.log.Info("session expired, forcing logout")
	s.cache.EvictAll()

	s.mu.Lock()
	s.isAuthenticated = false
	s.isLoading = false
	s.mu.Unlock()

	s.redirect(LoginRoute)
}

// TokenExpiresAt reads the exp claim from the stored credential without
// verifying the signature; the backend is the verifier, this only feeds
// UI hints like "session about to expire".
func (s *Session) TokenExpiresAt() (time.Time, bool) {
	raw := s.tokens.Get()
	if raw == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
