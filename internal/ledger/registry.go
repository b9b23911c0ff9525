package ledger

import "sync"

// Registry hands out one Ledger per user. Ledgers live for the lifetime of
// the process; nothing is persisted.
type Registry struct {
	mu      sync.Mutex
	ledgers map[string]*Ledger
}

func NewRegistry() *Registry {
	return &Registry{
		ledgers: make(map[string]*Ledger),
	}
}

// ForUser returns the ledger for the given user id, creating it on first use.
func (r *Registry) ForUser(userId string) *Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.ledgers[userId]
	if !ok {
		l = New()
		r.ledgers[userId] = l
	}
	return l
}
