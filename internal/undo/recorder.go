package undo

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/mathfield/internal/editor"
	"github.com/dshills/mathfield/internal/event"
	"github.com/dshills/mathfield/internal/event/topic"
)

// Recorder turns a model's notifications into undo steps. A step is
// recorded lazily: once content has changed, the state is captured just
// before the next edit starts, or on Flush.
type Recorder struct {
	model   *editor.Model
	hub     *event.Hub
	manager *Manager
	sub     *event.Subscription
	logger  *zap.Logger

	mu    sync.Mutex
	dirty bool
	op    string
}

// NewRecorder subscribes to hub on behalf of m, which must already be
// attached to it, and records the model's current state as the base.
func NewRecorder(m *editor.Model, hub *event.Hub, mg *Manager, logger *zap.Logger) (*Recorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		model:   m,
		hub:     hub,
		manager: mg,
		logger:  logger.Named("undo"),
	}
	if err := mg.Reset(m); err != nil {
		return nil, err
	}
	sub, err := hub.SubscribeFunc("**", r.handle,
		event.WithPriority(event.PriorityCritical),
		event.WithFilter(contentOrAnnouncement))
	if err != nil {
		return nil, err
	}
	r.sub = sub
	return r, nil
}

// Manager returns the recorder's history.
func (r *Recorder) Manager() *Manager { return r.manager }

// Close stops recording.
func (r *Recorder) Close() error {
	return r.hub.Unsubscribe(r.sub)
}

// contentOrAnnouncement drops selection changes; they never start or name
// a step.
func contentOrAnnouncement(ev event.Event) bool {
	return ev.Topic != topic.SelectionWillChange && ev.Topic != topic.SelectionDidChange
}

func (r *Recorder) handle(ev event.Event) error {
	r.mu.Lock()
	switch ev.Topic {
	case topic.ContentWillChange:
		r.mu.Unlock()
		return r.Flush()
	case topic.ContentDidChange:
		r.dirty = true
		if r.op == "" {
			r.op = "edit"
		}
	default:
		if r.dirty {
			r.op = label(r.op, ev.Announcement())
		}
	}
	r.mu.Unlock()
	return nil
}

// label picks the name of a step from the announcements it produced.
// Replacing a selection announces a delete then a replacement; the
// replacement names the step.
func label(cur, name string) string {
	switch name {
	case editor.AnnounceReplacement:
		return name
	case editor.AnnounceInsert, editor.AnnounceDelete:
		if cur == "edit" || cur == "" {
			return name
		}
	}
	return cur
}

// Flush records any pending change as an undo step.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	if !r.dirty {
		r.mu.Unlock()
		return nil
	}
	op := r.op
	r.dirty, r.op = false, ""
	r.mu.Unlock()

	recorded, err := r.manager.Snapshot(r.model, op)
	if err != nil {
		r.logger.Warn("undo snapshot failed", zap.String("op", op), zap.Error(err))
		return err
	}
	if recorded {
		r.logger.Debug("undo step recorded",
			zap.String("op", op),
			zap.Int("depth", r.manager.UndoCount()))
	}
	return nil
}

// Undo reverts the last step.
func (r *Recorder) Undo() error {
	return r.restore(r.manager.Undo)
}

// Redo reapplies the last undone step.
func (r *Recorder) Redo() error {
	return r.restore(r.manager.Redo)
}

func (r *Recorder) restore(fn func(*editor.Model) error) error {
	if err := r.Flush(); err != nil {
		return err
	}
	r.sub.Pause()
	defer r.sub.Resume()

	err := fn(r.model)
	if err != nil && !errors.Is(err, ErrNothingToUndo) && !errors.Is(err, ErrNothingToRedo) {
		r.logger.Error("undo restore failed", zap.Error(err))
	}
	return err
}
