package event

import (
	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/editor"
	"github.com/dshills/mathfield/internal/event/topic"
)

// Event is one notification from a model.
type Event struct {
	// Topic is the published topic, e.g. "announce.delete".
	Topic topic.Topic

	// Model is the model that sent a change notification. Announcements
	// carry Prior instead.
	Model *editor.Model

	// Prior is a read-only snapshot taken before an announced operation.
	// It is nil for change notifications and plonks.
	Prior *editor.Model

	// Atoms are the atoms an announced operation affected.
	Atoms []*atom.Atom
}

// Announcement returns the announcement name, or "" when the event is not
// an announcement.
func (e Event) Announcement() string {
	if e.Topic.Parent() != topic.Announce {
		return ""
	}
	return e.Topic.Base()
}

// Handler receives events.
type Handler interface {
	Handle(ev Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ev Event) error {
	return f(ev)
}
