package event

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/mathfield/internal/event/topic"
)

// Hub delivers model events to subscribers synchronously, in priority
// order, on the goroutine that publishes. Handlers subscribed with equal
// priority run in subscription order. Subscribe and Unsubscribe are safe
// to call from handlers.
type Hub struct {
	mu      sync.RWMutex
	byTopic map[topic.Topic][]*Subscription
	byID    map[string]*Subscription
	matcher *topic.Matcher
	seq     uint64

	logger  *zap.Logger
	onPanic PanicHandler

	published atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
}

// Stats counts hub activity.
type Stats struct {
	Published   uint64
	Delivered   uint64
	Failed      uint64
	Panicked    uint64
	Subscribers int
}

// NewHub returns an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		byTopic: make(map[topic.Topic][]*Subscription),
		byID:    make(map[string]*Subscription),
		matcher: topic.NewMatcher(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers handler for topics matching pattern.
func (h *Hub) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, fmt.Errorf("subscribe %q: %w", pattern, ErrInvalidTopic)
	}
	config := SubscriptionConfig{Priority: PriorityNormal}
	for _, opt := range opts {
		opt(&config)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	sub := &Subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: handler,
		config:  config,
		seq:     h.seq,
	}
	h.byID[sub.id] = sub
	h.byTopic[pattern] = append(h.byTopic[pattern], sub)
	h.matcher.Add(pattern)
	return sub, nil
}

// SubscribeFunc registers a function handler.
func (h *Hub) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return h.Subscribe(pattern, fn, opts...)
}

// Unsubscribe removes sub. Events already being delivered may still reach
// it.
func (h *Hub) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.byID[sub.id]; !ok {
		return ErrSubscriptionNotFound
	}
	delete(h.byID, sub.id)
	list := h.byTopic[sub.pattern]
	for i, s := range list {
		if s == sub {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(h.byTopic, sub.pattern)
	} else {
		h.byTopic[sub.pattern] = list
	}
	h.matcher.Remove(sub.pattern)
	sub.done.Store(true)
	return nil
}

// Publish delivers ev to every matching subscription. Handler errors and
// recovered panics are joined into the returned error; delivery continues
// past them.
func (h *Hub) Publish(ev Event) error {
	if !ev.Topic.IsValid() || ev.Topic.IsWildcard() {
		return fmt.Errorf("publish %q: %w", ev.Topic, ErrInvalidTopic)
	}
	h.published.Add(1)

	var errs []error
	for _, sub := range h.match(ev.Topic) {
		if !sub.accepts(ev) {
			continue
		}
		if err := h.deliver(sub, ev); err != nil {
			errs = append(errs, err)
			continue
		}
		h.delivered.Add(1)
		if sub.config.Once {
			_ = h.Unsubscribe(sub)
		}
	}
	return errors.Join(errs...)
}

// match returns the subscriptions for t in delivery order.
func (h *Hub) match(t topic.Topic) []*Subscription {
	h.mu.RLock()
	var subs []*Subscription
	for _, p := range h.matcher.Match(t) {
		subs = append(subs, h.byTopic[p]...)
	}
	h.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool {
		if subs[i].config.Priority != subs[j].config.Priority {
			return subs[i].config.Priority < subs[j].config.Priority
		}
		return subs[i].seq < subs[j].seq
	})
	return subs
}

func (h *Hub) deliver(sub *Subscription, ev Event) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		h.panicked.Add(1)
		perr := &PanicError{
			SubscriptionID: sub.id,
			Topic:          ev.Topic,
			Value:          r,
			Stack:          string(debug.Stack()),
		}
		h.logger.Error("event handler panicked",
			zap.String("topic", ev.Topic.String()),
			zap.String("subscription", sub.id),
			zap.Any("panic", r))
		if h.onPanic != nil {
			h.onPanic(perr)
		}
		err = perr
	}()

	if herr := sub.handler.Handle(ev); herr != nil {
		h.failed.Add(1)
		return &HandlerError{SubscriptionID: sub.id, Topic: ev.Topic, Err: herr}
	}
	return nil
}

// Stats returns a snapshot of the hub counters.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	n := len(h.byID)
	h.mu.RUnlock()
	return Stats{
		Published:   h.published.Load(),
		Delivered:   h.delivered.Load(),
		Failed:      h.failed.Load(),
		Panicked:    h.panicked.Load(),
		Subscribers: n,
	}
}
