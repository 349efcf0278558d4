package event

import "go.uber.org/zap"

// Option configures a Hub.
type Option func(*Hub)

// PanicHandler is told about every recovered handler panic.
type PanicHandler func(err *PanicError)

// WithLogger sets the logger for handler failures.
func WithLogger(l *zap.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithPanicHandler sets a callback for recovered panics.
func WithPanicHandler(fn PanicHandler) Option {
	return func(h *Hub) {
		h.onPanic = fn
	}
}
