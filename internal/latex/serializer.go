package latex

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/mathfield/internal/atom"
)

// Serializer renders atoms as LaTeX. The output of a compound atom is
// cached on the atom until the editor invalidates it.
type Serializer struct{}

// NewSerializer returns a serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Serialize renders a sibling list.
func (s *Serializer) Serialize(list []*atom.Atom) string {
	var w writer
	w.list(list, atom.Style{})
	return w.String()
}

// String renders a whole tree.
func String(root *atom.Atom) string {
	return NewSerializer().Serialize(root.Branch(atom.Body))
}

// writer tracks whether the output ends in a command word, so that a
// following letter is separated by a space.
type writer struct {
	b    strings.Builder
	word bool
}

func (w *writer) String() string {
	return w.b.String()
}

func (w *writer) raw(s string) {
	if s == "" {
		return
	}
	if r, _ := utf8.DecodeRuneInString(s); w.word && isLetter(r) {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(s)
	w.word = endsInCommandWord(s)
}

func endsInCommandWord(s string) bool {
	i := strings.LastIndexByte(s, '\\')
	if i < 0 || i == len(s)-1 {
		return false
	}
	for _, r := range s[i+1:] {
		if !isLetter(r) {
			return false
		}
	}
	return true
}

// list renders atoms inheriting style, grouping runs of text and runs of
// a common style.
func (w *writer) list(list []*atom.Atom, inherited atom.Style) {
	atoms := skipSentinel(list)
	for i := 0; i < len(atoms); {
		st := atoms[i].Style
		j := i + 1
		for j < len(atoms) && atoms[j].Style == st {
			j++
		}
		closers := w.openStyle(st, inherited)
		w.run(atoms[i:j], st)
		w.raw(closers)
		i = j
	}
}

// run renders atoms that share a style.
func (w *writer) run(atoms []*atom.Atom, st atom.Style) {
	for i := 0; i < len(atoms); {
		if atoms[i].Mode != atom.ModeText {
			w.atom(atoms[i], i, st)
			i++
			continue
		}
		j := i
		var text strings.Builder
		for j < len(atoms) && atoms[j].Mode == atom.ModeText {
			text.WriteString(escapeText(atoms[j].Value))
			j++
		}
		w.raw(`\text{` + text.String() + "}")
		i = j
	}
}

// openStyle writes the style commands for the attributes of st that
// differ from inherited and returns the matching closing braces.
func (w *writer) openStyle(st, inherited atom.Style) string {
	if st == inherited || st.IsZero() {
		return ""
	}
	var n int
	open := func(s string) {
		w.raw(s)
		w.word = false
		n++
	}
	if st.Color != "" && st.Color != inherited.Color {
		open(`\textcolor{` + st.Color + "}{")
	}
	if st.Background != "" && st.Background != inherited.Background {
		open(`\colorbox{` + st.Background + "}{")
	}
	if st.Family != "" && st.Family != inherited.Family {
		if cmd, ok := familyCommands[st.Family]; ok {
			open(cmd + "{")
		}
	}
	if st.Weight == "bold" && inherited.Weight != "bold" {
		open(`\mathbf{`)
	}
	if st.Shape == "italic" && inherited.Shape != "italic" {
		open(`\mathit{`)
	}
	return strings.Repeat("}", n)
}

var familyCommands = map[string]string{
	"roman":      `\mathrm`,
	"sans-serif": `\mathsf`,
	"monospace":  `\mathtt`,
}

// atom renders one math-mode atom. i is its index in the run.
func (w *writer) atom(a *atom.Atom, i int, st atom.Style) {
	if !a.IsCompound() {
		w.raw(leaf(a))
		return
	}
	cacheable := st.IsZero()
	if v, ok := a.Verbatim(); ok && cacheable {
		w.raw(v)
		return
	}
	var sub writer
	if a.Kind == atom.KindSubSup && i > 0 {
		sub.raw("{}")
	}
	sub.compound(a, st)
	sub.scripts(a, st)
	out := sub.String()
	if cacheable {
		a.SetVerbatim(out)
	}
	w.raw(out)
}

func leaf(a *atom.Atom) string {
	switch a.Kind {
	case atom.KindFirst, atom.KindCommand, atom.KindComposition:
		return ""
	case atom.KindPlaceholder:
		return `\placeholder{}`
	case atom.KindSpace:
		if a.Command != "" {
			return a.Command
		}
		return "~"
	case atom.KindSizedDelim:
		return a.Command + delimText(a.Value)
	case atom.KindOp:
		if a.Command == `\operatorname` {
			return `\operatorname{` + a.Value + "}"
		}
	}
	if a.Command != "" {
		return a.Command
	}
	return escapeMath(a.Value)
}

func (w *writer) compound(a *atom.Atom, st atom.Style) {
	switch a.Kind {
	case atom.KindFraction:
		cmd := a.Command
		if cmd == "" {
			cmd = `\frac`
		}
		w.raw(cmd)
		w.braced(a.Branch(atom.Numer), st)
		w.braced(a.Branch(atom.Denom), st)
	case atom.KindRadical:
		w.raw(`\sqrt`)
		if a.HasBranch(atom.Index) {
			w.raw("[")
			w.list(a.Branch(atom.Index), st)
			w.raw("]")
		}
		w.braced(a.Branch(atom.Body), st)
	case atom.KindLeftRight:
		w.raw(`\left` + delimText(a.LeftDelim))
		w.list(a.Branch(atom.Body), st)
		w.raw(`\right` + delimText(a.RightDelim))
	case atom.KindArray:
		env := a.Environment
		if env == "" {
			env = "matrix"
		}
		w.raw(`\begin{` + env + "}")
		if env == "array" {
			w.raw("{" + strings.Repeat("c", a.ColCount()) + "}")
		}
		for r := 0; r < a.RowCount(); r++ {
			if r > 0 {
				w.raw(`\\`)
				w.word = false
			}
			for c := 0; c < a.ColCount(); c++ {
				if c > 0 {
					w.raw("&")
				}
				w.list(a.Cell(r, c), st)
			}
		}
		w.raw(`\end{` + env + "}")
	case atom.KindGroup:
		w.braced(a.Branch(atom.Body), st)
	case atom.KindBox:
		cmd := a.Command
		if cmd == "" {
			cmd = `\boxed`
		}
		w.raw(cmd)
		w.braced(a.Branch(atom.Body), st)
	case atom.KindOverUnder:
		over, under := a.HasBranch(atom.Overscript), a.HasBranch(atom.Underscript)
		switch {
		case over && under:
			w.raw(`\overunderset`)
			w.braced(a.Branch(atom.Overscript), st)
			w.braced(a.Branch(atom.Underscript), st)
		case under:
			w.raw(`\underset`)
			w.braced(a.Branch(atom.Underscript), st)
		default:
			w.raw(`\overset`)
			w.braced(a.Branch(atom.Overscript), st)
		}
		w.braced(a.Branch(atom.Body), st)
	case atom.KindSubSup:
	default:
		w.raw(leaf(a))
	}
}

func (w *writer) scripts(a *atom.Atom, st atom.Style) {
	if a.HasBranch(atom.Subscript) {
		w.raw("_")
		w.script(a.Branch(atom.Subscript), st)
	}
	if a.HasBranch(atom.Superscript) {
		w.raw("^")
		w.script(a.Branch(atom.Superscript), st)
	}
}

// script renders a script argument, without braces when it is a single
// plain character.
func (w *writer) script(list []*atom.Atom, st atom.Style) {
	atoms := skipSentinel(list)
	if len(atoms) == 1 {
		a := atoms[0]
		if !a.IsCompound() && a.Command == "" && a.Style == st && a.Mode == atom.ModeMath &&
			utf8.RuneCountInString(a.Value) == 1 && a.Kind != atom.KindPlaceholder {
			if r, _ := utf8.DecodeRuneInString(a.Value); isLetter(r) || r >= '0' && r <= '9' {
				w.word = false
				w.raw(a.Value)
				return
			}
		}
	}
	w.braced(list, st)
}

func (w *writer) braced(list []*atom.Atom, st atom.Style) {
	w.raw("{")
	w.word = false
	w.list(list, st)
	w.raw("}")
}

func delimText(d string) string {
	switch d {
	case "{":
		return `\{`
	case "}":
		return `\}`
	case "":
		return "."
	}
	return d
}

func skipSentinel(list []*atom.Atom) []*atom.Atom {
	if len(list) > 0 && list[0].Kind == atom.KindFirst {
		return list[1:]
	}
	return list
}

var mathEscapes = map[string]string{
	"{": `\{`,
	"}": `\}`,
	"#": `\#`,
	"&": `\&`,
	"%": `\%`,
	"_": `\_`,
	"$": `\$`,
	`\`: `\backslash`,
	"′": "'",
}

func escapeMath(s string) string {
	if e, ok := mathEscapes[s]; ok {
		return e
	}
	return s
}

func escapeText(s string) string {
	switch s {
	case "{", "}", "#", "&", "%", "_", "$":
		return `\` + s
	case `\`:
		return `\backslash`
	}
	return s
}
