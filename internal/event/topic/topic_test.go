package topic

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTopic_Structure(t *testing.T) {
	tp := Topic("announce.move")
	if diff := cmp.Diff([]string{"announce", "move"}, tp.Segments()); diff != "" {
		t.Errorf("Segments (-want +got):\n%s", diff)
	}
	if tp.Parent() != Announce {
		t.Errorf("Parent() = %q", tp.Parent())
	}
	if tp.Base() != "move" {
		t.Errorf("Base() = %q", tp.Base())
	}
	if Topic("single").Parent() != "" || Topic("single").Base() != "single" {
		t.Error("single segment topic")
	}
	if Announcement("plonk") != "announce.plonk" {
		t.Errorf("Announcement = %q", Announcement("plonk"))
	}
	if Topic("").Child("x") != "x" {
		t.Error("Child of empty topic")
	}
}

func TestTopic_IsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		want  bool
	}{
		{ContentDidChange, true},
		{"announce.*", true},
		{"", false},
		{".content", false},
		{"content.", false},
		{"content..did", false},
	}
	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.want {
			t.Errorf("%q.IsValid() = %v, want %v", tt.topic, got, tt.want)
		}
	}
}

func TestTopic_Matches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"content.did_change", "content.did_change", true},
		{"content.did_change", "content.*", true},
		{"content.did_change", "*.did_change", true},
		{"content.did_change", "**", true},
		{"content.did_change", "content.**", true},
		{"content", "content.**", true},
		{"announce.move", "content.*", false},
		{"content.did_change", "*", false},
		{"content.did_change.extra", "content.*", false},
		{"a.b.c.d", "a.**.d", true},
		{"a.d", "a.**.d", true},
	}
	for _, tt := range tests {
		if got := tt.topic.Matches(tt.pattern); got != tt.want {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.want)
		}
	}
}

func TestMatcher(t *testing.T) {
	m := NewMatcher()
	for _, p := range []Topic{"content.did_change", "content.*", "**", "announce.*", "content.*"} {
		m.Add(p)
	}
	if m.Count() != 4 {
		t.Errorf("Count() = %d, want 4", m.Count())
	}

	got := m.Match(ContentDidChange)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []Topic{"**", "content.*", "content.did_change"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Match (-want +got):\n%s", diff)
	}

	m.Remove("content.*")
	if !m.Has("content.*") {
		t.Error("pattern added twice should survive one removal")
	}
	m.Remove("content.*")
	if m.Has("content.*") {
		t.Error("pattern should be gone")
	}
	m.Remove("never.added")
	if len(m.Match("selection.did_change")) != 1 {
		t.Errorf("only ** should match, got %v", m.Match("selection.did_change"))
	}
}

func TestMatcherMatchesTopicAgreement(t *testing.T) {
	patterns := []Topic{"a.*", "a.**", "*.b", "a.b", "**.c", "x"}
	topics := []Topic{"a", "a.b", "a.b.c", "x", "y.b", "c"}
	m := NewMatcher()
	for _, p := range patterns {
		m.Add(p)
	}
	for _, tp := range topics {
		matched := map[Topic]bool{}
		for _, p := range m.Match(tp) {
			matched[p] = true
		}
		for _, p := range patterns {
			if tp.Matches(p) != matched[p] {
				t.Errorf("topic %q pattern %q: Matches=%v, Matcher=%v", tp, p, tp.Matches(p), matched[p])
			}
		}
	}
}
