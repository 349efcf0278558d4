package event

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/mathfield/internal/editor"
	"github.com/dshills/mathfield/internal/event/topic"
	"github.com/dshills/mathfield/internal/latex"
)

func record(h *Hub, t *testing.T, pattern topic.Topic, out *[]string, opts ...SubscriptionOption) *Subscription {
	t.Helper()
	sub, err := h.SubscribeFunc(pattern, func(ev Event) error {
		*out = append(*out, ev.Topic.String())
		return nil
	}, opts...)
	if err != nil {
		t.Fatalf("Subscribe(%q): %v", pattern, err)
	}
	return sub
}

func TestHub_SubscribeValidation(t *testing.T) {
	h := NewHub()
	if _, err := h.Subscribe("content.*", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler: %v", err)
	}
	if _, err := h.SubscribeFunc("", func(Event) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: %v", err)
	}
	if err := h.Publish(Event{Topic: "announce.*"}); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("publishing a pattern: %v", err)
	}
}

func TestHub_WildcardDelivery(t *testing.T) {
	h := NewHub()
	var content, announce, all []string
	record(h, t, "content.*", &content)
	record(h, t, "announce.*", &announce)
	record(h, t, "**", &all)

	for _, tp := range []topic.Topic{topic.ContentWillChange, topic.Announcement("plonk"), topic.SelectionDidChange} {
		if err := h.Publish(Event{Topic: tp}); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]string{"content.will_change"}, content); diff != "" {
		t.Errorf("content (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"announce.plonk"}, announce); diff != "" {
		t.Errorf("announce (-want +got):\n%s", diff)
	}
	if len(all) != 3 {
		t.Errorf("** received %v", all)
	}
}

func TestHub_PriorityOrder(t *testing.T) {
	h := NewHub()
	var order []string
	add := func(name string, p Priority) {
		h.SubscribeFunc(topic.ContentDidChange, func(Event) error {
			order = append(order, name)
			return nil
		}, WithPriority(p))
	}
	add("low", PriorityLow)
	add("normal-1", PriorityNormal)
	add("critical", PriorityCritical)
	add("normal-2", PriorityNormal)

	h.Publish(Event{Topic: topic.ContentDidChange})
	want := []string{"critical", "normal-1", "normal-2", "low"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub()
	var got []string
	sub := record(h, t, "content.*", &got)
	if h.Stats().Subscribers != 1 {
		t.Errorf("Subscribers = %d", h.Stats().Subscribers)
	}
	if err := h.Unsubscribe(sub); err != nil {
		t.Fatal(err)
	}
	if err := h.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second unsubscribe: %v", err)
	}
	h.Publish(Event{Topic: topic.ContentDidChange})
	if len(got) != 0 {
		t.Errorf("delivered after unsubscribe: %v", got)
	}
	if sub.IsActive() {
		t.Error("subscription still active")
	}
}

func TestHub_OnceFilter(t *testing.T) {
	h := NewHub()
	var once, filtered []string
	record(h, t, "**", &once, WithOnce())
	record(h, t, "announce.*", &filtered, WithFilter(func(ev Event) bool {
		return ev.Announcement() == editor.AnnounceDelete
	}))

	h.Publish(Event{Topic: topic.Announcement(editor.AnnounceMove)})
	h.Publish(Event{Topic: topic.Announcement(editor.AnnounceDelete)})
	if len(once) != 1 {
		t.Errorf("once subscription received %v", once)
	}
	if diff := cmp.Diff([]string{"announce.delete"}, filtered); diff != "" {
		t.Errorf("filtered (-want +got):\n%s", diff)
	}

	if h.Stats().Subscribers != 1 {
		t.Errorf("once subscription still registered: %+v", h.Stats())
	}
}

func TestHub_HandlerFailures(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	var panics []*PanicError
	h := NewHub(WithLogger(zap.New(core)), WithPanicHandler(func(err *PanicError) {
		panics = append(panics, err)
	}))

	boom := errors.New("boom")
	var reached bool
	h.SubscribeFunc("content.*", func(Event) error { panic("bad handler") }, WithPriority(PriorityHigh))
	h.SubscribeFunc("content.*", func(Event) error { return boom })
	h.SubscribeFunc("content.*", func(Event) error { reached = true; return nil }, WithPriority(PriorityLow))

	err := h.Publish(Event{Topic: topic.ContentDidChange})
	if !errors.Is(err, ErrHandlerPanic) || !errors.Is(err, boom) {
		t.Errorf("Publish error = %v", err)
	}
	var herr *HandlerError
	if !errors.As(err, &herr) || herr.Topic != topic.ContentDidChange {
		t.Errorf("expected a HandlerError, got %v", err)
	}
	if !reached {
		t.Error("delivery stopped at a failing handler")
	}
	if len(panics) != 1 || panics[0].Value != "bad handler" || panics[0].Stack == "" {
		t.Errorf("panic handler got %v", panics)
	}
	if logs.Len() != 1 {
		t.Errorf("logged %d errors, want 1", logs.Len())
	}

	st := h.Stats()
	if st.Published != 1 || st.Delivered != 1 || st.Failed != 1 || st.Panicked != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestHub_AsModelListener(t *testing.T) {
	h := NewHub()
	m := editor.New(editor.WithParser(latex.NewParser()), editor.WithSerializer(latex.NewSerializer()))
	h.Attach(m)

	var topics []string
	var deleted []string
	record(h, t, "**", &topics)
	h.SubscribeFunc(topic.Announcement(editor.AnnounceDelete), func(ev Event) error {
		for _, a := range ev.Atoms {
			deleted = append(deleted, a.Value)
		}
		if ev.Prior == nil {
			t.Error("delete announcement without a prior snapshot")
		}
		return nil
	})

	if err := m.Type("x"); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"content.will_change",
		"selection.will_change",
		"content.did_change",
		"selection.did_change",
		"announce.insert",
	}
	if diff := cmp.Diff(want, topics); diff != "" {
		t.Errorf("topics (-want +got):\n%s", diff)
	}

	m.Delete(-1)
	if diff := cmp.Diff([]string{"x"}, deleted); diff != "" {
		t.Errorf("deleted (-want +got):\n%s", diff)
	}
}
