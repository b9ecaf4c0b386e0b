package handlers

import (
	"sync"
	"time"
)

// stateTTL is how long an issued OAuth state stays redeemable. The
// authorization round trip is interactive, so minutes, not seconds.
const stateTTL = 10 * time.Minute

// stateRegistry tracks outstanding OAuth state nonces. A state is
// single-use: Consume removes it.
type stateRegistry struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

func newStateRegistry() *stateRegistry {
	return &stateRegistry{
		states: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Add registers a freshly issued state. Expired entries are swept on
// the way in, so the map stays bounded by the TTL without a goroutine.
func (r *stateRegistry) Add(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for s, issued := range r.states {
		if now.Sub(issued) > stateTTL {
			delete(r.states, s)
		}
	}

	r.states[state] = now
}

// Consume redeems a state, reporting whether it was outstanding and
// fresh. Either way the state is gone afterwards.
func (r *stateRegistry) Consume(state string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	issued, ok := r.states[state]
	if !ok {
		return false
	}
	delete(r.states, state)

	return r.now().Sub(issued) <= stateTTL
}
