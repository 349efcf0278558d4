package editor

import "github.com/dshills/mathfield/internal/atom"

// Announcement names passed to Listener.Announce.
const (
	AnnounceMove        = "move"
	AnnounceMoveUp      = "moveUp"
	AnnounceMoveDown    = "moveDown"
	AnnouncePlonk       = "plonk"
	AnnounceDelete      = "delete"
	AnnounceInsert      = "insert"
	AnnounceReplacement = "replacement"
	AnnounceLeap        = "leap"
)

// Listener receives change notifications from a Model.
// All methods are called synchronously.
type Listener interface {
	ContentWillChange(m *Model)
	ContentDidChange(m *Model)
	SelectionWillChange(m *Model)
	SelectionDidChange(m *Model)

	// Announce reports a discrete event. prior is a read-only clone taken
	// before the operation (nil for plonk); atoms are the atoms the
	// operation affected, such as the deleted run.
	Announce(event string, prior *Model, atoms []*atom.Atom)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) ContentWillChange(*Model) {}
func (NopListener) ContentDidChange(*Model) {}
func (NopListener) SelectionWillChange(*Model) {}
func (NopListener) SelectionDidChange(*Model) {}
func (NopListener) Announce(string, *Model, []*atom.Atom) {}

type announcement struct {
	event string
	prior *Model
	atoms []*atom.Atom
}
