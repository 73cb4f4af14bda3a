package session

import (
	"sync"
	"time"
)

// RouteGroup classifies where the user currently is for guarding purposes.
type RouteGroup string

const (
	RouteGroupAuth      RouteGroup = "auth"
	RouteGroupProtected RouteGroup = "protected"
	RouteGroupPublic    RouteGroup = "public"
)

// HomeRoute is where authenticated users land when leaving the auth group.
const HomeRoute = "/"

// Decide returns the route to redirect to for the given group, or "" when
// the user may stay. No decision is made while the initial auth check is
// still loading.
func (s *Session) Decide(group RouteGroup) string {
	if s.IsLoading() {
		return ""
	}
	authed := s.IsAuthenticated()

	switch {
	case !authed && group == RouteGroupProtected:
		return LoginRoute
	case authed && group == RouteGroupAuth:
		return HomeRoute
	default:
		return ""
	}
}

// Guard debounces route decisions so redirects do not flap while the app is
// hydrating: only the last Evaluate within the debounce window fires.
type Guard struct {
	session  *Session
	debounce time.Duration
	redirect func(route string)

	mu    sync.Mutex
	timer *time.Timer
}

func NewGuard(s *Session, debounce time.Duration, redirect func(route string)) *Guard {
	if redirect == nil {
		redirect = s.redirect
	}
	return &Guard{
		session:  s,
		debounce: debounce,
		redirect: redirect,
	}
}

// Evaluate schedules a guard decision for the given route group. A newer
// call supersedes a pending one.
func (g *Guard) Evaluate(group RouteGroup) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.debounce, func() {
		if target := g.session.Decide(group); target != "" {
			g.redirect(target)
		}
	})
}

// Stop cancels any pending decision.
func (g *Guard) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
