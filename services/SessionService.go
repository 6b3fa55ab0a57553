package services

import (
	"context"
	"log"
	"sync"
	"time"

	"foodHub/models"
	"foodHub/repository"

	"github.com/google/uuid"
)

// Session is one shopper: a cart and a checkout driven by one request at a
// time.
type Session struct {
	Id       string
	Cart     *CartStore
	Checkout *CheckoutService

	mu       sync.Mutex
	lastSeen time.Time
	evicted  bool
}

type SessionService struct {
	cr      repository.CartRepository
	or      repository.OrderRepository
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionService(cartRepo repository.CartRepository, orderRepo repository.OrderRepository, idleTTL time.Duration) *SessionService {
	return &SessionService{
		cr:       cartRepo,
		or:       orderRepo,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (ss *SessionService) CreateSessionId() string {
	return uuid.NewString()
}

// lookup returns the in-memory session, hydrating its cart from storage the
// first time the id is seen.
func (ss *SessionService) lookup(sessionId string) (sess *Session, err error) {
	if _, e := uuid.Parse(sessionId); e != nil {
		err = models.ErrBadRequest
		return
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if s, ok := ss.sessions[sessionId]; ok {
		sess = s
		return
	}

	cart := NewCartStore(ss.cr, CartSlot(sessionId))
	// a read failure is not an empty cart; keep the session out of the map so
	// the next request reads storage again instead of overwriting it
	if e := cart.Hydrate(); e != nil {
		log.Printf("lookup: hydrate %s: %v", sessionId, e)
		sess = nil
		err = models.ErrServerError
		return
	}
	sess = &Session{
		Id:       sessionId,
		Cart:     cart,
		Checkout: NewCheckoutService(cart, ss.or),
		lastSeen: ss.now(),
	}
	ss.sessions[sessionId] = sess
	return
}

// WithSession runs fn while holding the session, so actions of one shopper
// never interleave.
func (ss *SessionService) WithSession(sessionId string, fn func(sess *Session) error) (err error) {
	for {
		var sess *Session
		sess, err = ss.lookup(sessionId)
		if err != nil {
			return
		}
		sess.mu.Lock()
		if sess.evicted {
			sess.mu.Unlock()
			continue
		}
		ss.mu.Lock()
		sess.lastSeen = ss.now()
		ss.mu.Unlock()
		err = fn(sess)
		sess.mu.Unlock()
		return
	}
}

func (ss *SessionService) Count() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

// EvictIdle drops sessions unused for longer than the idle TTL. Their carts
// stay in storage and are hydrated again on the next request.
func (ss *SessionService) EvictIdle() (evicted int) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	for id, sess := range ss.sessions {
		if now.Sub(sess.lastSeen) < ss.idleTTL {
			continue
		}
		if !sess.mu.TryLock() {
			continue
		}
		sess.evicted = true
		sess.mu.Unlock()
		delete(ss.sessions, id)
		evicted++
	}
	return
}

func (ss *SessionService) RunEvictor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := ss.EvictIdle(); n > 0 {
				log.Printf("evicted %d idle sessions", n)
			}
		}
	}
}
