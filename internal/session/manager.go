// Package session owns the current authentication session for one device.
// The manager is the single authoritative holder: dependents subscribe to
// change notifications instead of polling, and a nil session always means
// "tear down and reset", never "keep stale data".
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Session is the opaque authentication handle.
type Session struct {
	UserID string
	Email  string
	Expiry time.Time
}

// Resolver looks up a previously persisted session, e.g. by verifying a
// stored token. A nil session with nil error means "no session".
type Resolver func(ctx context.Context) (*Session, error)

// Observer receives every session change. A nil session signals logout.
type Observer func(*Session)

type Manager struct {
	mu       sync.Mutex
	resolver Resolver
	current  *Session
	resolved bool
	nextID   int
	subs     map[int]Observer
}

func NewManager(resolver Resolver) *Manager {
	return &Manager{
		resolver: resolver,
		subs:     make(map[int]Observer),
	}
}

// Init resolves the persisted session exactly once and emits the result. A
// resolver failure degrades to logged-out rather than leaving callers in the
// unresolved state: the first routing decision must never hang on a network
// error. Subsequent calls return the current session.
func (m *Manager) Init(ctx context.Context) *Session {
	m.mu.Lock()
	if m.resolved {
		s := m.current
		m.mu.Unlock()
		return s
	}
	resolver := m.resolver
	m.mu.Unlock()

	var sess *Session
	if resolver != nil {
		var err error
		sess, err = resolver(ctx)
		if err != nil {
			slog.Warn("session resolution failed, treating as logged out", "error", err)
			sess = nil
		}
	}

	m.mu.Lock()
	if m.resolved {
		// Lost the race against a concurrent Init; keep the first result.
		s := m.current
		m.mu.Unlock()
		return s
	}
	m.resolved = true
	m.current = sess
	subs := m.observers()
	m.mu.Unlock()

	for _, fn := range subs {
		fn(sess)
	}
	return sess
}

// Resolved reports whether the initial session lookup has completed.
func (m *Manager) Resolved() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolved
}

// Current returns the session, or nil when logged out or unresolved.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe registers an observer for every subsequent session change and
// returns an unsubscribe function.
func (m *Manager) Subscribe(fn Observer) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Login installs a new session and notifies subscribers.
func (m *Manager) Login(s *Session) {
	m.emit(s)
}

// Refresh replaces the session after a background token refresh.
func (m *Manager) Refresh(s *Session) {
	m.emit(s)
}

// Logout clears the session. Every subscriber observes the nil session and
// must reset its state to defaults.
func (m *Manager) Logout() {
	m.emit(nil)
}

func (m *Manager) emit(s *Session) {
	m.mu.Lock()
	m.resolved = true
	m.current = s
	subs := m.observers()
	m.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// observers returns a stable snapshot; callers hold m.mu.
func (m *Manager) observers() []Observer {
	out := make([]Observer, 0, len(m.subs))
	for _, fn := range m.subs {
		out = append(out, fn)
	}
	return out
}
