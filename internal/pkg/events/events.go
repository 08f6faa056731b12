// Package events carries mutation notifications out of the core.
// Publishing is fire-and-forget: a failed publish is logged and never
// affects core state.
package events

import (
	"context"
	"sync"
	"time"
)

// Event types emitted by the cart and order services.
const (
	TypeCartCreated        = "cart.created"
	TypeCartItemAdded      = "cart.item_added"
	TypeCartItemUpdated    = "cart.item_updated"
	TypeCartItemRemoved    = "cart.item_removed"
	TypeCartCleared        = "cart.cleared"
	TypeCartDeleted        = "cart.deleted"
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
)

// Event describes one mutation of an aggregate.
type Event struct {
	Type          string    `json:"type"`
	AggregateID   string    `json:"aggregate_id"`
	UserID        string    `json:"user_id,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Detail        string    `json:"detail,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// New stamps an event with the current time.
func New(eventType, aggregateID, userID, correlationID string) Event {
	return Event{
		Type:          eventType,
		AggregateID:   aggregateID,
		UserID:        userID,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
	}
}

// Publisher delivers events to an external collaborator.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Recorder is an in-memory Publisher for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
