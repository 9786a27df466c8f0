package service

import (
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/domain"
)

// SubscriptionHandle identifies one feed subscription for unsubscribe.
type SubscriptionHandle uint64

// LedgerFeed fans whole-user snapshots out to subscribers. Every ledger
// mutation publishes the fresh snapshot; consumers replace their cached
// state wholesale, never merging fields.
type LedgerFeed struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uuid.UUID]map[SubscriptionHandle]func(*domain.User)
}

// NewLedgerFeed creates a new LedgerFeed
func NewLedgerFeed() *LedgerFeed {
	return &LedgerFeed{
		subs: make(map[uuid.UUID]map[SubscriptionHandle]func(*domain.User)),
	}
}

// Subscribe registers a callback for one user's snapshots and returns a
// handle for Unsubscribe. Callbacks must not block.
func (f *LedgerFeed) Subscribe(userID uuid.UUID, fn func(*domain.User)) SubscriptionHandle {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	handle := SubscriptionHandle(f.nextID)

	if f.subs[userID] == nil {
		f.subs[userID] = make(map[SubscriptionHandle]func(*domain.User))
	}
	f.subs[userID][handle] = fn

	return handle
}

// Unsubscribe removes a subscription. Unknown handles are a no-op.
func (f *LedgerFeed) Unsubscribe(userID uuid.UUID, handle SubscriptionHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if callbacks, ok := f.subs[userID]; ok {
		delete(callbacks, handle)
		if len(callbacks) == 0 {
			delete(f.subs, userID)
		}
	}
}

// Publish delivers a snapshot to every subscriber of that user.
func (f *LedgerFeed) Publish(user *domain.User) {
	f.mu.Lock()
	callbacks := make([]func(*domain.User), 0, len(f.subs[user.ID]))
	for _, fn := range f.subs[user.ID] {
		callbacks = append(callbacks, fn)
	}
	f.mu.Unlock()

	for _, fn := range callbacks {
		fn(user)
	}
}
