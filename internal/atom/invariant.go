package atom

import (
	"errors"
	"fmt"
)

// Invariant violations reported by CheckInvariants.
var (
	ErrMissingSentinel = errors.New("sibling list does not start with a sentinel")
	ErrExtraSentinel   = errors.New("sentinel found past offset 0")
	ErrBranchAndArray  = errors.New("atom has both branches and an array")
	ErrIllegalBranch   = errors.New("branch not legal for atom kind")
)

// CheckInvariants verifies the structural rules of the tree rooted at root.
// It is intended for tests and debug builds.
func CheckInvariants(root *Atom) error {
	return check(root, "root")
}

func check(a *Atom, where string) error {
	if len(a.branches) > 0 && a.array != nil {
		return fmt.Errorf("%s: %w", where, ErrBranchAndArray)
	}
	for b, list := range a.branches {
		if !Legal(a.Kind, b) {
			return fmt.Errorf("%s/%s: %w", where, b, ErrIllegalBranch)
		}
		if err := checkList(list, where+"/"+string(b)); err != nil {
			return err
		}
	}
	for r, row := range a.array {
		for c, cell := range row {
			if err := checkList(cell, fmt.Sprintf("%s/cell%d,%d", where, r, c)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkList(list []*Atom, where string) error {
	if len(list) == 0 || list[0].Kind != KindFirst {
		return fmt.Errorf("%s: %w", where, ErrMissingSentinel)
	}
	for i, a := range list[1:] {
		if a.Kind == KindFirst {
			return fmt.Errorf("%s:%d: %w", where, i+1, ErrExtraSentinel)
		}
		if err := check(a, fmt.Sprintf("%s:%d", where, i+1)); err != nil {
			return err
		}
	}
	return nil
}
