// Package session keeps per-visitor state keyed by a cookie, the server-side
// counterpart of the browser's sessionStorage.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the value bag of one visitor.
type Session struct {
	ID string

	mu       sync.RWMutex
	values   map[string]any
	lastSeen time.Time
}

func newSession(now time.Time) *Session {
	return &Session{
		ID:       uuid.NewString(),
		values:   make(map[string]any),
		lastSeen: now,
	}
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the string stored under key, or "".
func (s *Session) GetString(key string) string {
	v, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// Set stores v under key.
func (s *Session) Set(key string, v any) {
	s.mu.Lock()
	s.values[key] = v
	s.mu.Unlock()
}

// Delete removes key.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}

// Clear removes every value.
func (s *Session) Clear() {
	s.mu.Lock()
	s.values = make(map[string]any)
	s.mu.Unlock()
}

// New returns a detached session, handy for callers without an HTTP request.
func New() *Session { return newSession(time.Now()) }

// Manager issues session cookies and holds sessions in memory until they idle out.
type Manager struct {
	cookie string
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns a Manager using cookie as the cookie name.
func NewManager(cookie string, ttl time.Duration) *Manager {
	return &Manager{
		cookie:   cookie,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Load returns the caller's session, creating one and setting the cookie if needed.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) *Session {
	now := m.now()
	if c, err := r.Cookie(m.cookie); err == nil && c.Value != "" {
		m.mu.Lock()
		s, ok := m.sessions[c.Value]
		if ok && now.Sub(s.lastSeen) <= m.ttl {
			s.lastSeen = now
			m.mu.Unlock()
			return s
		}
		delete(m.sessions, c.Value)
		m.mu.Unlock()
	}

	s := newSession(now)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Destroy forgets s and expires its cookie.
func (m *Manager) Destroy(w http.ResponseWriter, s *Session) {
	if s == nil {
		return
	}
	m.mu.Lock()
	delete(m.sessions, s.ID)
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Sweep drops idle sessions and reports how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

type ctxKey struct{}

// Middleware loads the session for every request and stores it in the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.Load(w, r)
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by Middleware, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
