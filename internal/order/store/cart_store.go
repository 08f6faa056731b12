// Package store holds the concurrent in-memory storage layer. All state
// lives in process memory; a restart discards everything. Per-key
// operations on the same map are linearizable, nothing is guaranteed
// across different keys.
package store

import (
	"log/slog"
	"sync"

	"github.com/jcmexdev/order-placement/internal/order/domain"
)

// CartStore is keyed storage for carts plus a userID -> cartID secondary
// index. A user has exactly one "current" cart: saving a new cart for the
// same user repoints the index without deleting the old aggregate.
type CartStore struct {
	mu           sync.RWMutex
	cartsByID    map[string]*domain.Cart
	cartIDByUser map[string]string
}

func NewCartStore() *CartStore {
	return &CartStore{
		cartsByID:    make(map[string]*domain.Cart),
		cartIDByUser: make(map[string]string),
	}
}

// Save upserts the cart and repoints the user index at it (last write
// wins).
func (s *CartStore) Save(cart *domain.Cart) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartsByID[cart.CartID()] = cart
	s.cartIDByUser[cart.UserID()] = cart.CartID()
	slog.Debug("saved cart", "cart_id", cart.CartID(), "user_id", cart.UserID(), "item_count", cart.ItemCount())
	return cart
}

// FindByID returns the cart, or false when absent. Absence is not an
// error.
func (s *CartStore) FindByID(cartID string) (*domain.Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.cartsByID[cartID]
	return cart, ok
}

// FindByUserID returns the user's current cart via the secondary index.
func (s *CartStore) FindByUserID(userID string) (*domain.Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cartID, ok := s.cartIDByUser[userID]
	if !ok {
		return nil, false
	}
	cart, ok := s.cartsByID[cartID]
	return cart, ok
}

// DeleteByID removes the aggregate. The user-index entry is removed only
// if it still points at the deleted cart, so a newer cart saved for the
// same user keeps its index entry.
func (s *CartStore) DeleteByID(cartID string) (*domain.Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed, ok := s.cartsByID[cartID]
	if !ok {
		return nil, false
	}
	delete(s.cartsByID, cartID)
	if s.cartIDByUser[removed.UserID()] == cartID {
		delete(s.cartIDByUser, removed.UserID())
	}
	slog.Debug("deleted cart", "cart_id", cartID)
	return removed, true
}

// UpdateWithVersionCheck is the optimistic-locking primitive. It re-reads
// the stored cart under the store lock, fails with VersionConflictError if
// the current version no longer matches expectedVersion, and otherwise
// applies mutator and stores its result, all atomically with respect to
// other store operations on the same cart.
func (s *CartStore) UpdateWithVersionCheck(cartID string, expectedVersion int64, mutator func(*domain.Cart) *domain.Cart) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.cartsByID[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	if actual := existing.Version(); actual != expectedVersion {
		return nil, &domain.VersionConflictError{CartID: cartID, Expected: expectedVersion, Actual: actual}
	}
	updated := mutator(existing)
	s.cartsByID[cartID] = updated
	s.cartIDByUser[updated.UserID()] = cartID
	return updated, nil
}

// Count returns the number of stored carts.
func (s *CartStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cartsByID)
}

// Clear drops everything. Test support only.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartsByID = make(map[string]*domain.Cart)
	s.cartIDByUser = make(map[string]string)
}
