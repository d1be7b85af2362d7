package state

import (
	"context"
	"sync"

	"github.com/Tecnolosic/rompeelciclo/internal/gateway"
	"github.com/Tecnolosic/rompeelciclo/internal/session"
)

// Store hands out one Silo per active user. Silos are created lazily on
// first access and evicted on logout.
type Store struct {
	gw    *gateway.Gateway
	queue *gateway.Queue

	mu    sync.Mutex
	silos map[string]*Silo
}

func NewStore(gw *gateway.Gateway, queue *gateway.Queue) *Store {
	return &Store{
		gw:    gw,
		queue: queue,
		silos: make(map[string]*Silo),
	}
}

// Acquire returns the user's silo, creating and hydrating it on first use.
// The silo's session manager starts resolved to the given session.
func (st *Store) Acquire(ctx context.Context, sess *session.Session) *Silo {
	st.mu.Lock()
	if silo, ok := st.silos[sess.UserID]; ok {
		st.mu.Unlock()
		return silo
	}
	st.mu.Unlock()

	mgr := session.NewManager(func(context.Context) (*session.Session, error) {
		return sess, nil
	})
	silo := NewSilo(sess.UserID, mgr, st.gw, st.queue)
	silo.Load(ctx)

	st.mu.Lock()
	defer st.mu.Unlock()
	if existing, ok := st.silos[sess.UserID]; ok {
		silo.Close()
		return existing
	}
	st.silos[sess.UserID] = silo
	return silo
}

// Peek returns the silo for userID without creating one.
func (st *Store) Peek(userID string) (*Silo, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	silo, ok := st.silos[userID]
	return silo, ok
}

// Logout signals the user's session manager, which resets the silo state,
// then evicts the silo.
func (st *Store) Logout(userID string) {
	st.mu.Lock()
	silo, ok := st.silos[userID]
	if ok {
		delete(st.silos, userID)
	}
	st.mu.Unlock()

	if ok {
		silo.sessions.Logout()
		silo.Close()
	}
}
