package atom

// Style holds the presentation attributes stamped on an atom.
// Empty fields mean "inherit".
type Style struct {
	Family     string
	Weight     string
	Shape      string
	Size       string
	Color      string
	Background string
}

// IsZero reports whether no attribute is set.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Merge returns s with every non-empty attribute of o applied on top.
func (s Style) Merge(o Style) Style {
	if o.Family != "" {
		s.Family = o.Family
	}
	if o.Weight != "" {
		s.Weight = o.Weight
	}
	if o.Shape != "" {
		s.Shape = o.Shape
	}
	if o.Size != "" {
		s.Size = o.Size
	}
	if o.Color != "" {
		s.Color = o.Color
	}
	if o.Background != "" {
		s.Background = o.Background
	}
	return s
}

// Covers reports whether every non-empty attribute of o is already set to
// the same value in s.
func (s Style) Covers(o Style) bool {
	return s.Merge(o) == s
}

// Without clears every attribute of s that o sets.
func (s Style) Without(o Style) Style {
	if o.Family != "" {
		s.Family = ""
	}
	if o.Weight != "" {
		s.Weight = ""
	}
	if o.Shape != "" {
		s.Shape = ""
	}
	if o.Size != "" {
		s.Size = ""
	}
	if o.Color != "" {
		s.Color = ""
	}
	if o.Background != "" {
		s.Background = ""
	}
	return s
}
