package event

import (
	"go.uber.org/zap"

	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/editor"
	"github.com/dshills/mathfield/internal/event/topic"
)

var _ editor.Listener = (*Hub)(nil)

// Attach makes the hub the model's listener.
func (h *Hub) Attach(m *editor.Model) {
	m.SetListener(h)
}

// ContentWillChange publishes topic.ContentWillChange.
func (h *Hub) ContentWillChange(m *editor.Model) {
	h.notify(Event{Topic: topic.ContentWillChange, Model: m})
}

// ContentDidChange publishes topic.ContentDidChange.
func (h *Hub) ContentDidChange(m *editor.Model) {
	h.notify(Event{Topic: topic.ContentDidChange, Model: m})
}

// SelectionWillChange publishes topic.SelectionWillChange.
func (h *Hub) SelectionWillChange(m *editor.Model) {
	h.notify(Event{Topic: topic.SelectionWillChange, Model: m})
}

// SelectionDidChange publishes topic.SelectionDidChange.
func (h *Hub) SelectionDidChange(m *editor.Model) {
	h.notify(Event{Topic: topic.SelectionDidChange, Model: m})
}

// Announce publishes "announce.<event>". prior is the snapshot the
// model took before the operation.
func (h *Hub) Announce(event string, prior *editor.Model, atoms []*atom.Atom) {
	h.notify(Event{Topic: topic.Announcement(event), Prior: prior, Atoms: atoms})
}

// notify publishes on behalf of a model, which has no use for handler
// errors; they are logged instead.
func (h *Hub) notify(ev Event) {
	if err := h.Publish(ev); err != nil {
		h.logger.Warn("model event handler failed",
			zap.String("topic", ev.Topic.String()),
			zap.Error(err))
	}
}
