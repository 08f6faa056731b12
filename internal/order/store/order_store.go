package store

import (
	"log/slog"
	"sync"

	"github.com/jcmexdev/order-placement/internal/order/domain"
)

// OrderStore is keyed storage for immutable orders with two secondary
// indices: userID -> set of orderIDs, and idempotencyKey -> orderID. The
// idempotency index is the correctness-critical piece: a key is never
// remapped to a different order once set.
type OrderStore struct {
	mu               sync.RWMutex
	ordersByID       map[string]*domain.Order
	orderIDsByUser   map[string]map[string]struct{}
	orderIDByIdemKey map[string]string
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		ordersByID:       make(map[string]*domain.Order),
		orderIDsByUser:   make(map[string]map[string]struct{}),
		orderIDByIdemKey: make(map[string]string),
	}
}

// Save upserts the order and maintains both secondary indices.
func (s *OrderStore) Save(order *domain.Order) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked(order)
	return order
}

func (s *OrderStore) saveLocked(order *domain.Order) {
	s.ordersByID[order.OrderID] = order
	userOrders, ok := s.orderIDsByUser[order.UserID]
	if !ok {
		userOrders = make(map[string]struct{})
		s.orderIDsByUser[order.UserID] = userOrders
	}
	userOrders[order.OrderID] = struct{}{}
	s.orderIDByIdemKey[order.IdempotencyKey] = order.OrderID
	slog.Debug("saved order", "order_id", order.OrderID, "user_id", order.UserID, "status", order.Status)
}

// SaveIfAbsentByIdempotencyKey atomically inserts the order only if its
// idempotency key is unclaimed. When the insert loses the race the
// existing stored order is returned and the candidate is discarded, so at
// most one order is ever associated with a given key no matter how many
// goroutines race to create it.
func (s *OrderStore) SaveIfAbsentByIdempotencyKey(order *domain.Order) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existingID, ok := s.orderIDByIdemKey[order.IdempotencyKey]; ok {
		slog.Info("order already exists for idempotency key",
			"idempotency_key", order.IdempotencyKey, "existing_order_id", existingID)
		return s.ordersByID[existingID]
	}
	s.saveLocked(order)
	return order
}

func (s *OrderStore) FindByID(orderID string) (*domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.ordersByID[orderID]
	return order, ok
}

func (s *OrderStore) FindByIdempotencyKey(key string) (*domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orderID, ok := s.orderIDByIdemKey[key]
	if !ok {
		return nil, false
	}
	order, ok := s.ordersByID[orderID]
	return order, ok
}

func (s *OrderStore) FindByUserID(userID string) []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.orderIDsByUser[userID]
	out := make([]*domain.Order, 0, len(ids))
	for id := range ids {
		if order, ok := s.ordersByID[id]; ok {
			out = append(out, order)
		}
	}
	return out
}

func (s *OrderStore) FindByStatus(status domain.OrderStatus) []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Order
	for _, order := range s.ordersByID {
		if order.Status == status {
			out = append(out, order)
		}
	}
	return out
}

// UpdateStatus atomically replaces the stored order with a copy carrying
// the new status. No-op when the order is absent. Transition validation is
// the lifecycle's job, applied before calling this.
func (s *OrderStore) UpdateStatus(orderID string, status domain.OrderStatus) (*domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.ordersByID[orderID]
	if !ok {
		return nil, false
	}
	updated := existing.WithStatus(status)
	s.ordersByID[orderID] = updated
	slog.Debug("updated order status", "order_id", orderID, "status", status)
	return updated, true
}

// Count returns the number of stored orders.
func (s *OrderStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ordersByID)
}

// Clear drops everything. Test support only.
func (s *OrderStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ordersByID = make(map[string]*domain.Order)
	s.orderIDsByUser = make(map[string]map[string]struct{})
	s.orderIDByIdemKey = make(map[string]string)
}
