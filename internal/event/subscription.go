package event

import (
	"sync/atomic"

	"github.com/dshills/mathfield/internal/event/topic"
)

// Priority orders handlers. Lower values run first.
type Priority int

const (
	// PriorityCritical is for handlers that keep derived state in step
	// with the model, such as undo recording.
	PriorityCritical Priority = 0

	// PriorityHigh runs before ordinary handlers.
	PriorityHigh Priority = 100

	// PriorityNormal is the default.
	PriorityNormal Priority = 200

	// PriorityLow is for logging and tracing.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// FilterFunc decides whether an event reaches a handler.
type FilterFunc func(ev Event) bool

// SubscriptionConfig holds per-subscription settings.
type SubscriptionConfig struct {
	Priority Priority
	Filter   FilterFunc
	Once     bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the handler priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithFilter sets a delivery predicate.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// WithOnce cancels the subscription after its first successful delivery.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

// Subscription is a handler registered for a topic pattern.
type Subscription struct {
	id      string
	pattern topic.Topic
	handler Handler
	config  SubscriptionConfig
	seq     uint64
	paused  atomic.Bool
	done    atomic.Bool
}

// ID returns the unique subscription id.
func (s *Subscription) ID() string { return s.id }

// Topic returns the subscribed pattern.
func (s *Subscription) Topic() topic.Topic { return s.pattern }

// Priority returns the handler priority.
func (s *Subscription) Priority() Priority { return s.config.Priority }

// Pause stops delivery until Resume.
func (s *Subscription) Pause() { s.paused.Store(true) }

// Resume restarts delivery after Pause.
func (s *Subscription) Resume() { s.paused.Store(false) }

// IsActive reports whether events are delivered.
func (s *Subscription) IsActive() bool {
	return !s.done.Load() && !s.paused.Load()
}

func (s *Subscription) accepts(ev Event) bool {
	if !s.IsActive() {
		return false
	}
	return s.config.Filter == nil || s.config.Filter(ev)
}
