package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/mathfield/internal/atom"
	"github.com/dshills/mathfield/internal/path"
)

// Model is the editable expression: an atom tree, the selection into it,
// and the configuration that shapes editing.
type Model struct {
	root     *atom.Atom
	sel      path.Selection
	settings Settings

	// mode is the current input mode. priorMode is restored when
	// command mode ends.
	mode      atom.Mode
	priorMode atom.Mode

	listener    Listener
	parser      Parser
	serializer  Serializer
	suggestions SuggestionSource
	styles      StyleResolver
	logger      *zap.Logger

	// suppress is set while a logical command is in progress; nested
	// steps neither notify nor announce until the outermost step ends.
	suppress bool
	pending  []announcement

	// readOnly marks clones, which share the tree.
	readOnly bool

	suggestionIndex int
}

// New creates a model holding an empty expression.
func New(opts ...Option) *Model {
	m := &Model{
		root:     atom.NewRoot(),
		sel:      path.Caret(path.Root(0)),
		settings: DefaultSettings(),
		listener: NopListener{},
		logger:   zap.NewNop(),
	}
	m.mode = m.settings.DefaultMode
	for _, opt := range opts {
		opt(m)
	}
	m.root.EnsureBranch(atom.Body)
	m.priorMode = m.mode
	m.sel = m.normalize(m.sel)
	return m
}

// Clone returns a read-only copy for lookahead. The selection is copied;
// the tree is shared. Navigation works on a clone but never adjusts
// placeholders; any edit panics.
func (m *Model) Clone() *Model {
	c := *m
	c.sel = m.sel.Clone()
	c.listener = NopListener{}
	c.pending = nil
	c.suppress = false
	c.readOnly = true
	return &c
}

// Settings returns the editing configuration.
func (m *Model) Settings() Settings {
	return m.settings
}

// SetSettings replaces the editing configuration. The input mode is left
// alone.
func (m *Model) SetSettings(s Settings) {
	if s.Macros == nil {
		s.Macros = map[string]string{}
	}
	m.settings = s
}

// Mode returns the current input mode.
func (m *Model) Mode() atom.Mode {
	return m.mode
}

// SetMode switches the input mode for subsequent insertions. Switching to
// command mode directly is the same as EnterCommandMode.
func (m *Model) SetMode(mode atom.Mode) {
	if mode == atom.ModeCommand {
		m.EnterCommandMode()
		return
	}
	if m.mode == atom.ModeCommand {
		m.ExitCommandMode()
	}
	m.mode = mode
}

// SetListener replaces the notification sink.
func (m *Model) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	m.listener = l
}

// Value serializes the whole expression.
func (m *Model) Value() (string, error) {
	if m.serializer == nil {
		return "", ErrNoSerializer
	}
	return m.serializer.Serialize(m.root.Branch(atom.Body)), nil
}

// SetValue replaces the whole expression with parsed text.
func (m *Model) SetValue(text string) error {
	return m.InsertText(text, InsertOptions{
		Mode:      ReplaceAll,
		Format:    FormatLatex,
		Selection: SelectAfter,
	})
}

// SelectionString returns the stable textual form of the selection.
func (m *Model) SelectionString() string {
	return m.sel.String()
}

// SetSelectionString restores a selection saved with SelectionString.
func (m *Model) SetSelectionString(s string) error {
	sel, err := path.Parse(s)
	if err != nil {
		return fmt.Errorf("restore selection: %w", err)
	}
	m.SetSelection(sel)
	return nil
}

// SetSelection moves the selection. Offsets out of range are clamped; a
// path that no longer resolves resets the selection to the start of the
// expression. It reports whether the selection changed.
func (m *Model) SetSelection(sel path.Selection) bool {
	return m.setSelection(sel)
}

func (m *Model) setSelection(sel path.Selection) bool {
	sel = m.normalize(sel)
	if sel.Equal(m.sel) {
		return false
	}
	if !m.suppress {
		m.listener.SelectionWillChange(m)
	}
	m.sel = sel
	if !m.suppress {
		m.listener.SelectionDidChange(m)
	}
	return true
}

// normalize returns a selection that resolves in the current tree.
func (m *Model) normalize(sel path.Selection) path.Selection {
	if len(sel.Path) == 0 {
		return path.Caret(path.Root(0))
	}
	_, list, ok := m.resolve(sel.Path)
	if !ok {
		m.logger.Warn("selection does not resolve, resetting to root",
			zap.String("selection", sel.String()))
		return path.Caret(path.Root(0))
	}
	last := len(list) - 1
	anchor := clamp(sel.Anchor(), 0, last)
	focus := clamp(anchor+sel.Extent, 0, last)
	return path.Selection{Path: sel.Path.WithOffset(anchor), Extent: focus - anchor}
}

// resolve walks p from the root. It returns the atom owning the final
// sibling list and the list itself.
func (m *Model) resolve(p path.Path) (parent *atom.Atom, list []*atom.Atom, ok bool) {
	node := m.root
	for i, seg := range p {
		list, ok = childList(node, seg.Relation)
		if !ok {
			return nil, nil, false
		}
		if i == len(p)-1 {
			return node, list, true
		}
		if seg.Offset < 1 || seg.Offset >= len(list) {
			return nil, nil, false
		}
		node = list[seg.Offset]
	}
	return nil, nil, false
}

// atomAt returns the atom at the final offset of p, or nil.
func (m *Model) atomAt(p path.Path) *atom.Atom {
	if len(p) == 0 {
		return m.root
	}
	_, list, ok := m.resolve(p)
	if !ok {
		return nil
	}
	off := p.Last().Offset
	if off < 0 || off >= len(list) {
		return nil
	}
	return list[off]
}

// childList returns the sibling list rel names on node.
func childList(node *atom.Atom, rel path.Relation) ([]*atom.Atom, bool) {
	if node == nil {
		return nil, false
	}
	if rel.IsCell() {
		if !node.IsArray() {
			return nil, false
		}
		cell := node.Cell(rel.Row, rel.Col)
		return cell, cell != nil
	}
	if !node.HasBranch(rel.Branch) {
		return nil, false
	}
	return node.EnsureBranch(rel.Branch), true
}

func setList(node *atom.Atom, rel path.Relation, list []*atom.Atom) {
	if rel.IsCell() {
		node.SetCell(rel.Row, rel.Col, list)
		return
	}
	node.SetBranch(rel.Branch, list)
}

// splice removes count atoms at index at of the list p names, inserts
// atoms in their place and returns the removed atoms. Cached
// serializations along p are invalidated.
func (m *Model) splice(p path.Path, at, count int, atoms ...*atom.Atom) []*atom.Atom {
	m.mustWrite()
	if at < 1 {
		panic(fmt.Sprintf("editor: splice at %d would touch the sentinel", at))
	}
	parent, list, ok := m.resolve(p)
	if !ok {
		panic(fmt.Sprintf("editor: splice into unresolved path %s", p))
	}
	at = min(at, len(list))
	count = clamp(count, 0, len(list)-at)
	removed := append([]*atom.Atom(nil), list[at:at+count]...)
	out := make([]*atom.Atom, 0, len(list)-count+len(atoms))
	out = append(out, list[:at]...)
	out = append(out, atoms...)
	out = append(out, list[at+count:]...)
	m.touch(p)
	setList(parent, p.Last().Relation, out)
	return removed
}

// touch invalidates the cached serialization of the root and every atom
// on the way down to the list p names.
func (m *Model) touch(p path.Path) {
	node := m.root
	node.InvalidateVerbatim()
	for i := 0; i < len(p)-1; i++ {
		list, ok := childList(node, p[i].Relation)
		if !ok || p[i].Offset < 1 || p[i].Offset >= len(list) {
			return
		}
		node = list[p[i].Offset]
		node.InvalidateVerbatim()
	}
}

func (m *Model) mustWrite() {
	if m.readOnly {
		panic("editor: mutation through a read-only clone")
	}
}

// begin starts a logical command. It returns true for the outermost call,
// which must be paired with end.
func (m *Model) begin() bool {
	m.mustWrite()
	if m.suppress {
		return false
	}
	m.listener.ContentWillChange(m)
	m.listener.SelectionWillChange(m)
	m.suppress = true
	return true
}

// end finishes the logical command begun by the outermost begin: the
// selection is revalidated, the did-change pair fires once, then queued
// announcements are delivered.
func (m *Model) end(outer bool) {
	if !outer {
		return
	}
	m.suppress = false
	m.sel = m.normalize(m.sel)
	m.listener.ContentDidChange(m)
	m.listener.SelectionDidChange(m)
	pending := m.pending
	m.pending = nil
	for _, a := range pending {
		m.listener.Announce(a.event, a.prior, a.atoms)
	}
}

// Batch runs fn as one logical command: listeners see a single
// notification pair no matter how many operations fn performs.
func (m *Model) Batch(fn func()) {
	outer := m.begin()
	defer m.end(outer)
	fn()
}

// report announces an event, deferring it while a command is in progress.
func (m *Model) report(event string, prior *Model, atoms []*atom.Atom) {
	if event == "" {
		return
	}
	if m.suppress {
		m.pending = append(m.pending, announcement{event: event, prior: prior, atoms: atoms})
		return
	}
	m.listener.Announce(event, prior, atoms)
}

// edit runs a content command. plan inspects the model and returns the
// mutation to perform, or nil when the command does not apply; in that
// case nothing changes and no notification fires. The mutation returns
// the atoms to report with event.
func (m *Model) edit(event string, plan func() func() []*atom.Atom) bool {
	m.mustWrite()
	prior := m.Clone()
	if m.hasSuggestions() {
		outer := m.begin()
		defer m.end(outer)
		m.removeSuggestions()
	}
	apply := plan()
	if apply == nil {
		return false
	}
	outer := m.begin()
	defer m.end(outer)
	atoms := apply()
	m.report(event, prior, atoms)
	return true
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
