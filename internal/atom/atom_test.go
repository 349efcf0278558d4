package atom

import (
	"errors"
	"testing"
)

func TestNewListPrependsSentinel(t *testing.T) {
	list := NewList(New(KindOrd, "x"))
	if len(list) != 2 || list[0].Kind != KindFirst {
		t.Fatalf("expected [first x], got %v", list)
	}

	again := NewList(list...)
	if len(again) != 2 {
		t.Errorf("existing sentinel should be reused, got %d atoms", len(again))
	}
}

func TestLegalBranches(t *testing.T) {
	tests := []struct {
		kind   Kind
		branch Branch
		want   bool
	}{
		{KindFraction, Numer, true},
		{KindFraction, Body, false},
		{KindRadical, Index, true},
		{KindOrd, Superscript, true},
		{KindOrd, Body, false},
		{KindArray, Superscript, false},
		{KindFirst, Subscript, false},
		{KindOverUnder, Overscript, true},
	}
	for _, tt := range tests {
		if got := Legal(tt.kind, tt.branch); got != tt.want {
			t.Errorf("Legal(%s, %s) = %v, want %v", tt.kind, tt.branch, got, tt.want)
		}
	}
}

func TestSetIllegalBranchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for illegal branch")
		}
	}()
	New(KindOrd, "x").SetBranch(Numer, nil)
}

func TestNewFractionPlaceholders(t *testing.T) {
	f := NewFraction(nil, []*Atom{New(KindOrd, "2")})
	numer := f.Branch(Numer)
	if len(numer) != 2 || numer[1].Kind != KindPlaceholder {
		t.Errorf("empty numerator should hold a placeholder, got %v", numer)
	}
	if denom := f.Branch(Denom); len(denom) != 2 || denom[1].Value != "2" {
		t.Errorf("unexpected denominator %v", denom)
	}
}

func TestPresentBranchesOrder(t *testing.T) {
	r := NewRadical([]*Atom{New(KindOrd, "3")}, []*Atom{New(KindOrd, "x")})
	r.SetBranch(Superscript, NewList(New(KindOrd, "2")))

	got := r.PresentBranches()
	want := []Branch{Index, Body, Superscript}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("branch %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	f := NewFraction([]*Atom{New(KindOrd, "y")}, []*Atom{New(KindOrd, "2")})
	c := f.Clone()
	if !Equal(f, c) {
		t.Fatal("clone should be structurally equal")
	}
	c.Branch(Numer)[1].Value = "z"
	if f.Branch(Numer)[1].Value != "y" {
		t.Error("mutating the clone changed the original")
	}
	if Equal(f, c) {
		t.Error("trees should differ after mutation")
	}
}

func TestVerbatimCache(t *testing.T) {
	a := New(KindOrd, "x")
	if _, ok := a.Verbatim(); ok {
		t.Error("fresh atom should have no cached form")
	}
	a.SetVerbatim("x")
	if s, ok := a.Verbatim(); !ok || s != "x" {
		t.Errorf("got %q, %v", s, ok)
	}
	a.InvalidateVerbatim()
	if _, ok := a.Verbatim(); ok {
		t.Error("cache should be stale")
	}
}

func TestCheckInvariants(t *testing.T) {
	root := NewRoot(NewFraction([]*Atom{New(KindOrd, "1")}, nil))
	if err := CheckInvariants(root); err != nil {
		t.Fatalf("valid tree reported: %v", err)
	}

	root.branches[Body] = []*Atom{New(KindOrd, "x")}
	if err := CheckInvariants(root); !errors.Is(err, ErrMissingSentinel) {
		t.Errorf("expected ErrMissingSentinel, got %v", err)
	}

	root = NewRoot()
	root.branches[Body] = append(root.branches[Body], NewFirst())
	if err := CheckInvariants(root); !errors.Is(err, ErrExtraSentinel) {
		t.Errorf("expected ErrExtraSentinel, got %v", err)
	}
}

func TestFilterPlaceholders(t *testing.T) {
	list := []*Atom{NewFraction(nil, nil), New(KindOrd, "x")}
	if got := len(Filter(list, IsPlaceholder)); got != 2 {
		t.Errorf("expected 2 placeholders, got %d", got)
	}
}

func TestStyleToggleHelpers(t *testing.T) {
	s := Style{Weight: "bold", Color: "red"}
	if !s.Covers(Style{Weight: "bold"}) {
		t.Error("bold should be covered")
	}
	if s.Covers(Style{Shape: "italic"}) {
		t.Error("italic should not be covered")
	}
	if got := s.Without(Style{Weight: "bold"}); got.Weight != "" || got.Color != "red" {
		t.Errorf("unexpected %+v", got)
	}
}
