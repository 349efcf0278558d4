package path

import (
	"strconv"
	"strings"
)

// Selection is a path plus a signed extent.
type Selection struct {
	Path   Path
	Extent int
}

// Caret returns a collapsed selection at p.
func Caret(p Path) Selection {
	return Selection{Path: p.Clone()}
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	return Selection{Path: s.Path.Clone(), Extent: s.Extent}
}

// Anchor returns the anchor offset in the final sibling list.
func (s Selection) Anchor() int {
	if len(s.Path) == 0 {
		return 0
	}
	return s.Path.Last().Offset
}

// Focus returns the focus offset.
func (s Selection) Focus() int {
	return s.Anchor() + s.Extent
}

// Start returns the lower of anchor and focus.
func (s Selection) Start() int {
	return min(s.Anchor(), s.Focus())
}

// End returns the higher of anchor and focus.
func (s Selection) End() int {
	return max(s.Anchor(), s.Focus())
}

// IsCollapsed reports whether the selection is a caret.
func (s Selection) IsCollapsed() bool {
	return s.Extent == 0
}

// Equal reports whether both the path and the extent match.
func (s Selection) Equal(o Selection) bool {
	return s.Extent == o.Extent && s.Path.Equal(o.Path)
}

// String returns the stable textual form: segments joined by "/", then
// "#extent" when the extent is non-zero.
func (s Selection) String() string {
	var b strings.Builder
	for i, seg := range s.Path {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(seg.String())
	}
	if s.Extent != 0 {
		b.WriteByte('#')
		b.WriteString(strconv.Itoa(s.Extent))
	}
	return b.String()
}
