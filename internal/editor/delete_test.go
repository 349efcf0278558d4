package editor

import (
	"testing"

	"github.com/dshills/mathfield/internal/atom"
)

func TestDeleteBackward(t *testing.T) {
	m := newTestModel(t, "x=1")
	r := listen(m)
	if !m.Delete(-1) {
		t.Fatal("delete failed")
	}
	expectValue(t, m, "x=")
	expectSelection(t, m, "body:2")
	if got := r.announcements(); len(got) != 1 || got[0] != AnnounceDelete {
		t.Fatalf("announcements = %v", got)
	}
	if got := values(r.announced[0].atoms); len(got) != 1 || got[0] != "1" {
		t.Errorf("deleted = %v", got)
	}
}

func TestDeleteForward(t *testing.T) {
	m := newTestModel(t, "abc")
	selectAt(t, m, "body:1")
	m.Delete(1)
	expectValue(t, m, "ac")
	expectSelection(t, m, "body:1")
}

func TestDeleteSelection(t *testing.T) {
	for _, dir := range []int{-1, 0, 1} {
		m := newTestModel(t, "abcd")
		selectAt(t, m, "body:3#-2")
		if !m.Delete(dir) {
			t.Fatalf("dir %d: delete failed", dir)
		}
		expectValue(t, m, "ad")
		expectSelection(t, m, "body:1")
	}
}

func TestDeleteCollapsedWithoutDirection(t *testing.T) {
	m := newTestModel(t, "a")
	r := listen(m)
	if m.Delete(0) {
		t.Error("nothing to delete")
	}
	if len(r.announced) != 0 {
		t.Errorf("unexpected announcements %v", r.announcements())
	}
}

func TestDeleteAtStartPlonks(t *testing.T) {
	m := newTestModel(t, "a")
	selectAt(t, m, "body:0")
	r := listen(m)
	if m.Delete(-1) {
		t.Error("nothing before the caret")
	}
	if got := r.announcements(); len(got) != 1 || got[0] != AnnouncePlonk {
		t.Errorf("announcements = %v", got)
	}
	if len(r.events) != 0 {
		t.Errorf("unexpected events %v", r.events)
	}
	expectValue(t, m, "a")
}

func TestDeleteEntersCompound(t *testing.T) {
	m := newTestModel(t, `x\frac{a}{b}`)
	r := listen(m)
	if !m.Delete(-1) {
		t.Fatal("delete failed")
	}
	if r.count("content.will") != 0 || r.count("content.did") != 0 {
		t.Errorf("events = %v, want a selection change only", r.events)
	}
	if got := r.announcements(); len(got) != 1 || got[0] != AnnounceMove {
		t.Errorf("announcements = %v, want [%s]", got, AnnounceMove)
	}
	expectValue(t, m, `x\frac{a}{b}`)
	expectSelection(t, m, "body:2/denom:1")

	selectAt(t, m, "body:1")
	m.Delete(1)
	expectSelection(t, m, "body:2/numer:0")
}

func TestDeleteCapturedCompound(t *testing.T) {
	m := newTestModel(t, "x")
	frac := atom.NewFraction(ords("a"), ords("b"))
	frac.CaptureSelection = true
	m.Insert([]*atom.Atom{frac}, InsertOptions{Selection: SelectAfter})
	m.Delete(-1)
	expectValue(t, m, "x")
	expectSelection(t, m, "body:1")
}

func TestDeleteUnwrapsFraction(t *testing.T) {
	tests := []struct {
		name string
		at   string
		dir  int
		want string
	}{
		{"start of denominator", "body:1/denom:0", -1, "body:1"},
		{"start of numerator", "body:1/numer:0", -1, "body:0"},
		{"end of numerator", "body:1/numer:1", 1, "body:1"},
		{"end of denominator", "body:1/denom:1", 1, "body:2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, `\frac{y}{2}`)
			selectAt(t, m, tt.at)
			r := listen(m)
			if !m.Delete(tt.dir) {
				t.Fatal("delete failed")
			}
			expectValue(t, m, "y2")
			expectSelection(t, m, tt.want)
			if got := r.announcements(); len(got) != 1 || got[0] != AnnounceDelete {
				t.Errorf("announcements = %v", got)
			}
			checkModel(t, m)
		})
	}
}

func TestDeleteUnwrapsRadical(t *testing.T) {
	m := newTestModel(t, `a\sqrt{x}`)
	selectAt(t, m, "body:2/body:0")
	m.Delete(-1)
	expectValue(t, m, "ax")
	expectSelection(t, m, "body:1")
}

func TestDeletePromotesScript(t *testing.T) {
	m := newTestModel(t, "x^2")
	selectAt(t, m, "body:1/superscript:0")
	m.Delete(-1)
	expectValue(t, m, "x2")
	expectSelection(t, m, "body:1")
	if m.Root().Branch(atom.Body)[1].HasBranch(atom.Superscript) {
		t.Error("superscript should be removed")
	}

	m = newTestModel(t, "{}^2")
	selectAt(t, m, "body:1/superscript:0")
	m.Delete(-1)
	expectValue(t, m, "2")
	expectSelection(t, m, "body:0")
	checkModel(t, m)
}

func TestDeleteReopensFence(t *testing.T) {
	m := newTestModel(t, `\left(x\right)`)
	m.Delete(-1)
	expectValue(t, m, `\left(x\right?`)
	expectSelection(t, m, "body:1/body:1")

	typeAll(t, m, ")")
	expectValue(t, m, `\left(x\right)`)
	expectSelection(t, m, "body:1")
}

func TestDeleteWithoutSmartFenceEntersGroup(t *testing.T) {
	s := DefaultSettings()
	s.SmartFence = false
	m := newTestModel(t, `\left(x\right)`, WithSettings(s))
	m.Delete(-1)
	expectValue(t, m, `\left(x\right)`)
	expectSelection(t, m, "body:1/body:1")
}

func TestDeleteArrayCells(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		at    string
		dir   int
		value string
		sel   string
	}{
		{
			name:  "first cell linearizes",
			src:   `\begin{matrix}a&b\\c&d\end{matrix}`,
			at:    "body:1/cell0,0:0",
			dir:   -1,
			value: "a,b;c,d",
			sel:   "body:0",
		},
		{
			name:  "first column joins the row above",
			src:   `\begin{matrix}a&b\\c&d\end{matrix}`,
			at:    "body:1/cell1,0:0",
			dir:   -1,
			value: `\begin{matrix}a&bc,d\end{matrix}`,
			sel:   "body:1/cell0,1:1",
		},
		{
			name:  "merge with the previous column",
			src:   `\begin{matrix}a&b\end{matrix}`,
			at:    "body:1/cell0,1:0",
			dir:   -1,
			value: `\begin{matrix}ab\end{matrix}`,
			sel:   "body:1/cell0,0:1",
		},
		{
			name:  "empty cell in a used column moves left",
			src:   `\begin{matrix}a&\\c&d\end{matrix}`,
			at:    "body:1/cell0,1:0",
			dir:   -1,
			value: `\begin{matrix}a&\\c&d\end{matrix}`,
			sel:   "body:1/cell0,0:1",
		},
		{
			name:  "forward merges the next column",
			src:   `\begin{matrix}a&b\end{matrix}`,
			at:    "body:1/cell0,0:1",
			dir:   1,
			value: `\begin{matrix}ab\end{matrix}`,
			sel:   "body:1/cell0,0:1",
		},
		{
			name:  "forward at the end of a row joins the next row",
			src:   `\begin{matrix}a\\b\end{matrix}`,
			at:    "body:1/cell0,0:1",
			dir:   1,
			value: `\begin{matrix}ab\end{matrix}`,
			sel:   "body:1/cell0,0:1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, tt.src)
			selectAt(t, m, tt.at)
			if !m.Delete(tt.dir) {
				t.Fatal("delete failed")
			}
			expectValue(t, m, tt.value)
			expectSelection(t, m, tt.sel)
			checkModel(t, m)
		})
	}
}

func TestDeleteAtEndOfLastCellPlonks(t *testing.T) {
	m := newTestModel(t, `\begin{matrix}a\end{matrix}`)
	selectAt(t, m, "body:1/cell0,0:1")
	r := listen(m)
	if m.Delete(1) {
		t.Error("nothing after the last cell")
	}
	if got := r.announcements(); len(got) != 1 || got[0] != AnnouncePlonk {
		t.Errorf("announcements = %v", got)
	}
}

func TestInsertThenDeleteRestores(t *testing.T) {
	srcs := []string{"", "ab", `\frac{a}{b}`, `x^{2}+\sqrt{y}`}
	for _, src := range srcs {
		m := newTestModel(t, src)
		before := m.Root().Clone()
		sel := m.SelectionString()
		typeAll(t, m, "q")
		m.Delete(-1)
		if !atom.Equal(before, m.Root()) {
			t.Errorf("%q: tree changed after insert and delete", src)
		}
		expectSelection(t, m, sel)
	}
}
