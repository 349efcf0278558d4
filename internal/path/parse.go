package path

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/mathfield/internal/atom"
)

// ErrSyntax is returned by Parse for malformed input.
var ErrSyntax = errors.New("path: invalid syntax")

// Parse decodes the textual form produced by Selection.String.
func Parse(s string) (Selection, error) {
	var sel Selection
	body := s
	if i := strings.LastIndexByte(s, '#'); i >= 0 {
		ext, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return Selection{}, fmt.Errorf("%w: extent %q", ErrSyntax, s[i+1:])
		}
		sel.Extent = ext
		body = s[:i]
	}
	if body == "" {
		return Selection{}, fmt.Errorf("%w: empty path", ErrSyntax)
	}
	for _, part := range strings.Split(body, "/") {
		seg, err := parseSegment(part)
		if err != nil {
			return Selection{}, err
		}
		sel.Path = append(sel.Path, seg)
	}
	return sel, nil
}

// MustParse is like Parse but panics on error. For tests and constants.
func MustParse(s string) Selection {
	sel, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return sel
}

func parseSegment(s string) (Segment, error) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return Segment{}, fmt.Errorf("%w: segment %q has no offset", ErrSyntax, s)
	}
	offset, err := strconv.Atoi(s[i+1:])
	if err != nil || offset < 0 {
		return Segment{}, fmt.Errorf("%w: offset in %q", ErrSyntax, s)
	}
	rel, err := parseRelation(s[:i])
	if err != nil {
		return Segment{}, err
	}
	return Segment{Relation: rel, Offset: offset}, nil
}

func parseRelation(s string) (Relation, error) {
	if rest, ok := strings.CutPrefix(s, "cell"); ok {
		rs, cs, found := strings.Cut(rest, ",")
		if !found {
			return Relation{}, fmt.Errorf("%w: cell %q", ErrSyntax, s)
		}
		row, err1 := strconv.Atoi(rs)
		col, err2 := strconv.Atoi(cs)
		if err1 != nil || err2 != nil || row < 0 || col < 0 {
			return Relation{}, fmt.Errorf("%w: cell %q", ErrSyntax, s)
		}
		return CellRel(row, col), nil
	}
	b := atom.Branch(s)
	if !b.Valid() {
		return Relation{}, fmt.Errorf("%w: unknown relation %q", ErrSyntax, s)
	}
	return BranchRel(b), nil
}
