package atom

// Kind identifies the variant of an atom.
type Kind int

// Atom kinds.
const (
	KindRoot Kind = iota
	KindFirst
	KindOrd
	KindBin
	KindRel
	KindOpen
	KindClose
	KindPunct
	KindInner
	KindOp
	KindTextOrd
	KindFraction
	KindRadical
	KindLeftRight
	KindSubSup
	KindArray
	KindPlaceholder
	KindCommand
	KindComposition
	KindGroup
	KindSizedDelim
	KindOverUnder
	KindBox
	KindSpace
	KindError
)

var kindNames = [...]string{
	KindRoot:        "root",
	KindFirst:       "first",
	KindOrd:         "mord",
	KindBin:         "mbin",
	KindRel:         "mrel",
	KindOpen:        "mopen",
	KindClose:       "mclose",
	KindPunct:       "mpunct",
	KindInner:       "minner",
	KindOp:          "mop",
	KindTextOrd:     "textord",
	KindFraction:    "genfrac",
	KindRadical:     "surd",
	KindLeftRight:   "leftright",
	KindSubSup:      "msubsup",
	KindArray:       "array",
	KindPlaceholder: "placeholder",
	KindCommand:     "command",
	KindComposition: "composition",
	KindGroup:       "group",
	KindSizedDelim:  "sizeddelim",
	KindOverUnder:   "overunder",
	KindBox:         "box",
	KindSpace:       "space",
	KindError:       "error",
}

// String returns the kind name.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Mode is the input mode an atom was created in.
type Mode int

const (
	// ModeMath is ordinary math input.
	ModeMath Mode = iota

	// ModeText is literal text inside math, as in \text{...}.
	ModeText

	// ModeCommand is name-based symbol entry (autocomplete in progress).
	ModeCommand
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeMath:
		return "math"
	case ModeText:
		return "text"
	case ModeCommand:
		return "command"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "math", "":
		return ModeMath, true
	case "text":
		return ModeText, true
	case "command":
		return ModeCommand, true
	}
	return ModeMath, false
}
