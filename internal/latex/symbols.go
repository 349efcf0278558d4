package latex

import (
	"sort"

	"github.com/dshills/mathfield/internal/atom"
)

// symbol describes a command that produces a single atom.
type symbol struct {
	kind  atom.Kind
	glyph string
}

var symbols = map[string]symbol{
	// Greek
	`\alpha`:   {atom.KindOrd, "α"},
	`\beta`:    {atom.KindOrd, "β"},
	`\gamma`:   {atom.KindOrd, "γ"},
	`\delta`:   {atom.KindOrd, "δ"},
	`\epsilon`: {atom.KindOrd, "ϵ"},
	`\zeta`:    {atom.KindOrd, "ζ"},
	`\eta`:     {atom.KindOrd, "η"},
	`\theta`:   {atom.KindOrd, "θ"},
	`\iota`:    {atom.KindOrd, "ι"},
	`\kappa`:   {atom.KindOrd, "κ"},
	`\lambda`:  {atom.KindOrd, "λ"},
	`\mu`:      {atom.KindOrd, "μ"},
	`\nu`:      {atom.KindOrd, "ν"},
	`\xi`:      {atom.KindOrd, "ξ"},
	`\pi`:      {atom.KindOrd, "π"},
	`\rho`:     {atom.KindOrd, "ρ"},
	`\sigma`:   {atom.KindOrd, "σ"},
	`\tau`:     {atom.KindOrd, "τ"},
	`\phi`:     {atom.KindOrd, "ϕ"},
	`\chi`:     {atom.KindOrd, "χ"},
	`\psi`:     {atom.KindOrd, "ψ"},
	`\omega`:   {atom.KindOrd, "ω"},
	`\Gamma`:   {atom.KindOrd, "Γ"},
	`\Delta`:   {atom.KindOrd, "Δ"},
	`\Theta`:   {atom.KindOrd, "Θ"},
	`\Lambda`:  {atom.KindOrd, "Λ"},
	`\Pi`:      {atom.KindOrd, "Π"},
	`\Sigma`:   {atom.KindOrd, "Σ"},
	`\Phi`:     {atom.KindOrd, "Φ"},
	`\Omega`:   {atom.KindOrd, "Ω"},

	// Ordinary symbols
	`\infty`:     {atom.KindOrd, "∞"},
	`\partial`:   {atom.KindOrd, "∂"},
	`\nabla`:     {atom.KindOrd, "∇"},
	`\emptyset`:  {atom.KindOrd, "∅"},
	`\forall`:    {atom.KindOrd, "∀"},
	`\exists`:    {atom.KindOrd, "∃"},
	`\prime`:     {atom.KindOrd, "′"},
	`\backslash`: {atom.KindOrd, `\`},
	`\ldots`:     {atom.KindInner, "…"},
	`\cdots`:     {atom.KindInner, "⋯"},
	`\vdots`:     {atom.KindOrd, "⋮"},
	`\ddots`:     {atom.KindInner, "⋱"},
	`\%`:         {atom.KindOrd, "%"},
	`\#`:         {atom.KindOrd, "#"},
	`\&`:         {atom.KindOrd, "&"},
	`\_`:         {atom.KindOrd, "_"},
	`\$`:         {atom.KindOrd, "$"},

	// Binary operators
	`\times`:    {atom.KindBin, "×"},
	`\cdot`:     {atom.KindBin, "⋅"},
	`\div`:      {atom.KindBin, "÷"},
	`\pm`:       {atom.KindBin, "±"},
	`\mp`:       {atom.KindBin, "∓"},
	`\cup`:      {atom.KindBin, "∪"},
	`\cap`:      {atom.KindBin, "∩"},
	`\setminus`: {atom.KindBin, "∖"},
	`\circ`:     {atom.KindBin, "∘"},

	// Relations
	`\le`:       {atom.KindRel, "≤"},
	`\leq`:      {atom.KindRel, "≤"},
	`\ge`:       {atom.KindRel, "≥"},
	`\geq`:      {atom.KindRel, "≥"},
	`\ne`:       {atom.KindRel, "≠"},
	`\neq`:      {atom.KindRel, "≠"},
	`\approx`:   {atom.KindRel, "≈"},
	`\equiv`:    {atom.KindRel, "≡"},
	`\sim`:      {atom.KindRel, "∼"},
	`\in`:       {atom.KindRel, "∈"},
	`\notin`:    {atom.KindRel, "∉"},
	`\subset`:   {atom.KindRel, "⊂"},
	`\subseteq`: {atom.KindRel, "⊆"},
	`\to`:       {atom.KindRel, "→"},
	`\gets`:     {atom.KindRel, "←"},
	`\implies`:  {atom.KindRel, "⟹"},
	`\iff`:      {atom.KindRel, "⟺"},

	// Large operators and functions
	`\sum`:  {atom.KindOp, "∑"},
	`\prod`: {atom.KindOp, "∏"},
	`\int`:  {atom.KindOp, "∫"},
	`\oint`: {atom.KindOp, "∮"},
	`\lim`:  {atom.KindOp, "lim"},
	`\sin`:  {atom.KindOp, "sin"},
	`\cos`:  {atom.KindOp, "cos"},
	`\tan`:  {atom.KindOp, "tan"},
	`\log`:  {atom.KindOp, "log"},
	`\ln`:   {atom.KindOp, "ln"},
	`\exp`:  {atom.KindOp, "exp"},
	`\max`:  {atom.KindOp, "max"},
	`\min`:  {atom.KindOp, "min"},

	// Delimiters outside \left...\right
	`\{`:      {atom.KindOpen, "{"},
	`\}`:      {atom.KindClose, "}"},
	`\langle`: {atom.KindOpen, "⟨"},
	`\rangle`: {atom.KindClose, "⟩"},
	`\lfloor`: {atom.KindOpen, "⌊"},
	`\rfloor`: {atom.KindClose, "⌋"},
	`\lceil`:  {atom.KindOpen, "⌈"},
	`\rceil`:  {atom.KindClose, "⌉"},
	`\lvert`:  {atom.KindOpen, "|"},
	`\rvert`:  {atom.KindClose, "|"},
	`\lVert`:  {atom.KindOpen, "‖"},
	`\rVert`:  {atom.KindClose, "‖"},
	`\|`:      {atom.KindOrd, "‖"},

	// Spacing
	`\,`:     {atom.KindSpace, " "},
	`\:`:     {atom.KindSpace, " "},
	`\;`:     {atom.KindSpace, " "},
	`\!`:     {atom.KindSpace, ""},
	`\ `:     {atom.KindSpace, " "},
	`\quad`:  {atom.KindSpace, " "},
	`\qquad`: {atom.KindSpace, " "},
}

// SymbolNames returns every single-atom command name, sorted.
func SymbolNames() []string {
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSymbol reports whether name produces a single atom.
func IsSymbol(name string) bool {
	_, ok := symbols[name]
	return ok
}

// charKind classifies a literal math-mode character.
func charKind(ch string) atom.Kind {
	switch ch {
	case "+", "-", "*", "±", "×", "÷", "·":
		return atom.KindBin
	case "=", "<", ">", ":", "≤", "≥", "≠", "≈":
		return atom.KindRel
	case ",", ";":
		return atom.KindPunct
	case "(", "[":
		return atom.KindOpen
	case ")", "]", "!":
		return atom.KindClose
	}
	return atom.KindOrd
}
