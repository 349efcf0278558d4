package latex

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/mathfield/internal/atom"
)

// DefaultMaxDepth bounds macro and argument expansion.
const DefaultMaxDepth = 16

// Parser turns LaTeX into atoms.
type Parser struct {
	// MaxDepth bounds nested macro and argument expansion.
	MaxDepth int
}

// NewParser returns a parser with default limits.
func NewParser() *Parser {
	return &Parser{MaxDepth: DefaultMaxDepth}
}

// Parse parses text in the given mode. args supplies #name substitutions
// and macros maps command names (without backslash) to their expansion,
// where #1..#9 refer to the macro's arguments. With smartFence, matching
// parentheses and brackets become delimited groups.
func (p *Parser) Parse(text string, mode atom.Mode, args, macros map[string]string, smartFence bool) ([]*atom.Atom, error) {
	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	s := &state{
		lex:        &lexer{src: text},
		args:       args,
		macros:     macros,
		smartFence: smartFence,
		maxDepth:   maxDepth,
	}
	out, err := s.parseList(mode, stopAtEOF)
	if err != nil {
		return nil, err
	}
	if t := s.lex.peek(); t.kind != tokEOF {
		return nil, s.errorf(t.pos, ErrUnbalanced, "unexpected %q", t.text)
	}
	return out, nil
}

// Parse parses text with a default parser.
func Parse(text string) ([]*atom.Atom, error) {
	return NewParser().Parse(text, atom.ModeMath, nil, nil, false)
}

type state struct {
	lex        *lexer
	args       map[string]string
	macros     map[string]string
	smartFence bool
	depth      int
	maxDepth   int
	style      atom.Style
}

type stopFunc func(t token) bool

func stopAtEOF(token) bool { return false }

func stopAtBrace(t token) bool { return t.kind == tokCloseBrace }

func stopAtChar(ch string) stopFunc {
	return func(t token) bool { return t.kind == tokChar && t.text == ch }
}

func stopAtCommand(names ...string) stopFunc {
	return func(t token) bool {
		if t.kind != tokCommand {
			return false
		}
		for _, n := range names {
			if t.text == n {
				return true
			}
		}
		return false
	}
}

func stopAtCell(t token) bool {
	return t.kind == tokAlign || stopAtCommand(`\\`, `\end`, `\cr`)(t)
}

func (s *state) errorf(pos int, err error, format string, args ...any) error {
	return &ParseError{Offset: pos, Message: fmt.Sprintf(format, args...), Err: err}
}

// sub returns a parser over text sharing this parser's configuration.
func (s *state) sub(text string) (*state, error) {
	if s.depth+1 > s.maxDepth {
		return nil, s.errorf(s.lex.pos, ErrMacroDepth, "expansion deeper than %d", s.maxDepth)
	}
	c := *s
	c.lex = &lexer{src: text}
	c.depth++
	return &c, nil
}

// parseList parses atoms until stop matches the next token or the input
// ends. The stopping token is not consumed.
func (s *state) parseList(mode atom.Mode, stop stopFunc) ([]*atom.Atom, error) {
	var out []*atom.Atom
	barrier := false
	for {
		t := s.lex.peek()
		if t.kind == tokEOF || stop(t) {
			break
		}
		s.lex.next()
		var err error
		out, barrier, err = s.element(t, mode, out, barrier)
		if err != nil {
			return nil, err
		}
	}
	if s.smartFence && mode == atom.ModeMath {
		out = fenceGroups(out)
	}
	return out, nil
}

// element parses the construct starting with t and appends its atoms.
// barrier is set after an empty group, so a following script starts a
// bare script atom instead of attaching to the previous atom.
func (s *state) element(t token, mode atom.Mode, out []*atom.Atom, barrier bool) ([]*atom.Atom, bool, error) {
	switch t.kind {
	case tokSpace:
		if mode == atom.ModeText {
			out = append(out, s.styled(atom.NewText(" ")))
		}
		return out, barrier, nil
	case tokOpenBrace:
		inner, err := s.groupBody(mode)
		if err != nil {
			return nil, false, err
		}
		switch {
		case len(inner) == 0:
			return out, true, nil
		case len(inner) == 1 || mode == atom.ModeText:
			return append(out, inner...), false, nil
		}
		g := atom.New(atom.KindGroup, "")
		g.SetBranch(atom.Body, inner)
		return append(out, g), false, nil
	case tokCloseBrace:
		return nil, false, s.errorf(t.pos, ErrUnbalanced, "unexpected }")
	case tokSuper, tokSub:
		b := atom.Superscript
		if t.kind == tokSub {
			b = atom.Subscript
		}
		arg, err := s.arg(mode)
		if err != nil {
			return nil, false, err
		}
		var target *atom.Atom
		if !barrier && len(out) > 0 {
			last := out[len(out)-1]
			if atom.Legal(last.Kind, b) && !last.HasBranch(b) && last.Kind != atom.KindOpen {
				target = last
			}
		}
		if target == nil {
			target = s.styled(atom.New(atom.KindSubSup, ""))
			out = append(out, target)
		}
		target.SetBranch(b, arg)
		return out, false, nil
	case tokAlign:
		return nil, false, s.errorf(t.pos, ErrEnvironment, "& outside an environment")
	case tokArg:
		atoms, err := s.argument(t, mode)
		if err != nil {
			return nil, false, err
		}
		return append(out, atoms...), false, nil
	case tokCommand:
		atoms, err := s.command(t, mode)
		if err != nil {
			return nil, false, err
		}
		return append(out, atoms...), false, nil
	}
	ch := s.cluster(t)
	if mode == atom.ModeText {
		return append(out, s.styled(atom.NewText(ch))), false, nil
	}
	if t.text == "'" {
		return append(out, s.styled(atom.New(atom.KindOrd, "′"))), false, nil
	}
	if t.text == "~" {
		return append(out, s.styled(atom.New(atom.KindSpace, " "))), false, nil
	}
	return append(out, s.styled(atom.New(charKind(ch), ch))), false, nil
}

// cluster extends the character token t to the whole grapheme cluster it
// starts, so combining marks stay with their base.
func (s *state) cluster(t token) string {
	ch, _, _, _ := uniseg.FirstGraphemeClusterInString(s.lex.src[t.pos:], -1)
	if len(ch) <= len(t.text) {
		return t.text
	}
	s.lex.pos = t.pos + len(ch)
	return ch
}

func (s *state) styled(a *atom.Atom) *atom.Atom {
	if !s.style.IsZero() {
		a.Style = a.Style.Merge(s.style)
	}
	return a
}

// groupBody parses the rest of a braced group whose { was consumed.
func (s *state) groupBody(mode atom.Mode) ([]*atom.Atom, error) {
	start := s.lex.pos
	inner, err := s.parseList(mode, stopAtBrace)
	if err != nil {
		return nil, err
	}
	if t := s.lex.next(); t.kind != tokCloseBrace {
		return nil, s.errorf(start, ErrUnbalanced, "unterminated group")
	}
	return inner, nil
}

// arg parses a command argument: a braced group or a single element.
func (s *state) arg(mode atom.Mode) ([]*atom.Atom, error) {
	s.lex.skipSpace()
	t := s.lex.next()
	switch t.kind {
	case tokEOF, tokCloseBrace, tokAlign:
		return nil, s.errorf(t.pos, ErrMissingArgument, "expected an argument")
	case tokOpenBrace:
		return s.groupBody(mode)
	}
	out, _, err := s.element(t, mode, nil, false)
	return out, err
}

// optional parses a [..] argument if present.
func (s *state) optional(mode atom.Mode) ([]*atom.Atom, bool, error) {
	s.lex.skipSpace()
	if t := s.lex.peek(); t.kind != tokChar || t.text != "[" {
		return nil, false, nil
	}
	start := s.lex.next().pos
	list, err := s.parseList(mode, stopAtChar("]"))
	if err != nil {
		return nil, false, err
	}
	if t := s.lex.next(); t.kind != tokChar || t.text != "]" {
		return nil, false, s.errorf(start, ErrUnbalanced, "unterminated optional argument")
	}
	return list, true, nil
}

// raw returns the source text of the next argument without parsing it.
func (s *state) raw() (string, error) {
	s.lex.skipSpace()
	t := s.lex.next()
	switch t.kind {
	case tokEOF, tokCloseBrace:
		return "", s.errorf(t.pos, ErrMissingArgument, "expected an argument")
	case tokOpenBrace:
	default:
		return s.lex.src[t.pos:t.end], nil
	}
	depth := 1
	start := s.lex.pos
	for {
		t := s.lex.next()
		switch t.kind {
		case tokEOF:
			return "", s.errorf(start, ErrUnbalanced, "unterminated group")
		case tokOpenBrace:
			depth++
		case tokCloseBrace:
			depth--
			if depth == 0 {
				return s.lex.src[start:t.pos], nil
			}
		}
	}
}

// argument substitutes a #name reference.
func (s *state) argument(t token, mode atom.Mode) ([]*atom.Atom, error) {
	if t.text == "?" {
		return []*atom.Atom{atom.NewPlaceholder()}, nil
	}
	text, ok := s.args[t.text]
	if !ok || text == "" {
		return []*atom.Atom{atom.NewPlaceholder()}, nil
	}
	sub, err := s.sub(text)
	if err != nil {
		return nil, err
	}
	sub.args = nil
	return sub.parseList(mode, stopAtEOF)
}

// delim reads the delimiter after \left, \right or \middle.
func (s *state) delim() (string, error) {
	s.lex.skipSpace()
	t := s.lex.next()
	switch t.kind {
	case tokChar, tokCommand:
		if t.text == "{" {
			return `\{`, nil
		}
		return t.text, nil
	}
	return "", s.errorf(t.pos, ErrMissingArgument, "expected a delimiter")
}

// command parses the command t and whatever arguments it takes.
func (s *state) command(t token, mode atom.Mode) ([]*atom.Atom, error) {
	name := t.text
	if body, ok := s.macros[strings.TrimPrefix(name, `\`)]; ok {
		return s.expand(body, mode)
	}
	if mode == atom.ModeText {
		switch name {
		case `\\`:
			return nil, nil
		case `\{`, `\}`, `\%`, `\#`, `\&`, `\_`, `\$`, `\ `:
			return []*atom.Atom{s.styled(atom.NewText(name[1:]))}, nil
		}
	}
	switch name {
	case `\frac`, `\dfrac`, `\tfrac`, `\cfrac`:
		numer, err := s.arg(mode)
		if err != nil {
			return nil, err
		}
		denom, err := s.arg(mode)
		if err != nil {
			return nil, err
		}
		f := atom.NewFraction(numer, denom)
		f.Command = name
		return []*atom.Atom{s.styled(f)}, nil
	case `\sqrt`:
		index, _, err := s.optional(mode)
		if err != nil {
			return nil, err
		}
		body, err := s.arg(mode)
		if err != nil {
			return nil, err
		}
		return []*atom.Atom{s.styled(atom.NewRadical(index, body))}, nil
	case `\left`:
		return s.leftRight(t, mode)
	case `\right`:
		return nil, s.errorf(t.pos, ErrUnbalanced, `\right without \left`)
	case `\middle`:
		d, err := s.delim()
		if err != nil {
			return nil, err
		}
		a := atom.New(atom.KindSizedDelim, d)
		a.Command = `\middle`
		return []*atom.Atom{s.styled(a)}, nil
	case `\begin`:
		return s.environment(t, mode)
	case `\end`:
		return nil, s.errorf(t.pos, ErrEnvironment, `\end without \begin`)
	case `\placeholder`:
		if _, _, err := s.optional(mode); err != nil {
			return nil, err
		}
		if p := s.lex.peek(); p.kind == tokOpenBrace {
			if _, err := s.raw(); err != nil {
				return nil, err
			}
		}
		return []*atom.Atom{atom.NewPlaceholder()}, nil
	case `\text`, `\textrm`, `\mbox`:
		text, err := s.raw()
		if err != nil {
			return nil, err
		}
		sub, err := s.sub(text)
		if err != nil {
			return nil, err
		}
		return sub.parseList(atom.ModeText, stopAtEOF)
	case `\overset`, `\underset`, `\overunderset`:
		return s.overUnder(name, mode)
	case `\boxed`:
		body, err := s.arg(mode)
		if err != nil {
			return nil, err
		}
		b := atom.New(atom.KindBox, "")
		b.Command = name
		b.SetBranch(atom.Body, body)
		return []*atom.Atom{s.styled(b)}, nil
	case `\operatorname`:
		text, err := s.raw()
		if err != nil {
			return nil, err
		}
		op := atom.New(atom.KindOp, text)
		op.Command = name
		return []*atom.Atom{s.styled(op)}, nil
	case `\textcolor`, `\colorbox`:
		color, err := s.raw()
		if err != nil {
			return nil, err
		}
		st := atom.Style{Color: color}
		if name == `\colorbox` {
			st = atom.Style{Background: color}
		}
		return s.withStyle(st, mode)
	}
	if st, ok := styleCommands[name]; ok {
		return s.withStyle(st, mode)
	}
	if sym, ok := symbols[name]; ok {
		if mode == atom.ModeText {
			return []*atom.Atom{s.styled(atom.NewText(sym.glyph))}, nil
		}
		a := atom.New(sym.kind, sym.glyph)
		a.Command = name
		return []*atom.Atom{s.styled(a)}, nil
	}
	e := atom.New(atom.KindError, name)
	e.Command = name
	return []*atom.Atom{e}, nil
}

var styleCommands = map[string]atom.Style{
	`\mathbf`:     {Weight: "bold"},
	`\boldsymbol`: {Weight: "bold"},
	`\mathit`:     {Shape: "italic"},
	`\mathrm`:     {Family: "roman"},
	`\mathsf`:     {Family: "sans-serif"},
	`\mathtt`:     {Family: "monospace"},
	`\textbf`:     {Weight: "bold"},
	`\textit`:     {Shape: "italic"},
}

// withStyle parses the next argument with st applied.
func (s *state) withStyle(st atom.Style, mode atom.Mode) ([]*atom.Atom, error) {
	saved := s.style
	s.style = s.style.Merge(st)
	defer func() { s.style = saved }()
	return s.arg(mode)
}

// expand parses a macro body, substituting its #1..#9 arguments.
func (s *state) expand(body string, mode atom.Mode) ([]*atom.Atom, error) {
	arity := macroArity(body)
	for i := 1; i <= arity; i++ {
		arg, err := s.raw()
		if err != nil {
			return nil, err
		}
		body = strings.ReplaceAll(body, fmt.Sprintf("#%d", i), "{"+arg+"}")
	}
	sub, err := s.sub(body)
	if err != nil {
		return nil, err
	}
	return sub.parseList(mode, stopAtEOF)
}

// macroArity returns the highest #n referenced in body.
func macroArity(body string) int {
	n := 0
	for i := 0; i+1 < len(body); i++ {
		if body[i] == '#' && body[i+1] >= '1' && body[i+1] <= '9' {
			n = max(n, int(body[i+1]-'0'))
		}
	}
	return n
}

func (s *state) leftRight(t token, mode atom.Mode) ([]*atom.Atom, error) {
	left, err := s.delim()
	if err != nil {
		return nil, err
	}
	body, err := s.parseList(mode, stopAtCommand(`\right`))
	if err != nil {
		return nil, err
	}
	if r := s.lex.next(); r.kind != tokCommand || r.text != `\right` {
		return nil, s.errorf(t.pos, ErrUnbalanced, `\left without \right`)
	}
	right, err := s.delim()
	if err != nil {
		return nil, err
	}
	return []*atom.Atom{s.styled(atom.NewLeftRight(left, right, body))}, nil
}

func (s *state) overUnder(name string, mode atom.Mode) ([]*atom.Atom, error) {
	a := atom.New(atom.KindOverUnder, "")
	a.Command = name
	var branches []atom.Branch
	switch name {
	case `\overset`:
		branches = []atom.Branch{atom.Overscript, atom.Body}
	case `\underset`:
		branches = []atom.Branch{atom.Underscript, atom.Body}
	default:
		branches = []atom.Branch{atom.Overscript, atom.Underscript, atom.Body}
	}
	for _, b := range branches {
		list, err := s.arg(mode)
		if err != nil {
			return nil, err
		}
		a.SetBranch(b, list)
	}
	return []*atom.Atom{s.styled(a)}, nil
}

func (s *state) environment(t token, mode atom.Mode) ([]*atom.Atom, error) {
	env, err := s.raw()
	if err != nil {
		return nil, err
	}
	if env == "array" {
		if _, err := s.raw(); err != nil {
			return nil, err
		}
	}
	var rows [][][]*atom.Atom
	var row [][]*atom.Atom
	for {
		cell, err := s.parseList(mode, stopAtCell)
		if err != nil {
			return nil, err
		}
		row = append(row, cell)
		sep := s.lex.next()
		switch {
		case sep.kind == tokAlign:
			continue
		case sep.kind == tokCommand && (sep.text == `\\` || sep.text == `\cr`):
			rows = append(rows, row)
			row = nil
			continue
		case sep.kind == tokCommand && sep.text == `\end`:
			closing, err := s.raw()
			if err != nil {
				return nil, err
			}
			if closing != env {
				return nil, s.errorf(sep.pos, ErrEnvironment, `\begin{%s} ended by \end{%s}`, env, closing)
			}
		default:
			return nil, s.errorf(t.pos, ErrEnvironment, "unterminated %s", env)
		}
		break
	}
	if len(row) > 1 || len(atom.Content(row[0])) > 0 || len(rows) == 0 {
		rows = append(rows, row)
	}
	return []*atom.Atom{s.styled(atom.NewArray(env, rows))}, nil
}

// fenceGroups turns matching parentheses and brackets into delimited
// groups.
func fenceGroups(list []*atom.Atom) []*atom.Atom {
	var out []*atom.Atom
	for i := 0; i < len(list); i++ {
		a := list[i]
		close, ok := groupCloser(a)
		if !ok {
			out = append(out, a)
			continue
		}
		j, found := matchingClose(list, i, a.Value, close)
		if !found {
			out = append(out, a)
			continue
		}
		body := fenceGroups(list[i+1 : j])
		out = append(out, atom.NewLeftRight(a.Value, close, body))
		i = j
	}
	return out
}

func groupCloser(a *atom.Atom) (string, bool) {
	if a.Kind != atom.KindOpen || a.IsCompound() || a.Command != "" {
		return "", false
	}
	switch a.Value {
	case "(":
		return ")", true
	case "[":
		return "]", true
	}
	return "", false
}

func matchingClose(list []*atom.Atom, i int, open, close string) (int, bool) {
	depth := 0
	for j := i; j < len(list); j++ {
		a := list[j]
		if a.IsCompound() || a.Command != "" {
			continue
		}
		switch {
		case a.Kind == atom.KindOpen && a.Value == open:
			depth++
		case a.Kind == atom.KindClose && a.Value == close:
			depth--
			if depth == 0 {
				return j, true
			}
		}
	}
	return 0, false
}
