package listener

import (
	"context"
	"sync"
)

// fakeEvent is an in-memory Event recording edits.
type fakeEvent struct {
	sender  int64
	chat    int64
	group   bool
	viaBot  int64
	text    string
	edits   []string
	editErr error
}

func (e *fakeEvent) SenderID() int64 { return e.sender }
func (e *fakeEvent) ChatID() int64   { return e.chat }
func (e *fakeEvent) IsGroup() bool   { return e.group }
func (e *fakeEvent) ViaBotID() int64 { return e.viaBot }
func (e *fakeEvent) Text() string    { return e.text }

func (e *fakeEvent) Edit(_ context.Context, text string) error {
	if e.editErr != nil {
		return e.editErr
	}
	e.edits = append(e.edits, text)
	// a chat message shows its latest edit
	e.text = text
	return nil
}

type attached struct {
	handler Handler
	desc    EventDescriptor
}

// fakeSource records attached handlers.
type fakeSource struct {
	mu      sync.Mutex
	next    SourceHandle
	routes  map[SourceHandle]attached
	removed []SourceHandle
}

func newFakeSource() *fakeSource {
	return &fakeSource{routes: make(map[SourceHandle]attached)}
}

func (s *fakeSource) AddEventHandler(h Handler, d EventDescriptor) SourceHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.routes[s.next] = attached{handler: h, desc: d}
	return s.next
}

func (s *fakeSource) RemoveEventHandler(h SourceHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.routes, h)
	s.removed = append(s.removed, h)
}

// deliver runs every handler matching the event, like the real router.
func (s *fakeSource) deliver(ctx context.Context, kind MessageKind, ev *fakeEvent) error {
	s.mu.Lock()
	var matched []Handler
	for h := SourceHandle(1); h <= s.next; h++ {
		if r, ok := s.routes[h]; ok && r.desc.Matches(kind, ev.text, false) {
			matched = append(matched, r.handler)
		}
	}
	s.mu.Unlock()

	for _, h := range matched {
		if err := h(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

type fakeLang map[string]string

func (l fakeLang) Get(key string) string {
	if v, ok := l[key]; ok {
		return v
	}
	return key
}

var testLang = fakeLang{
	KeyErrorPrefix: "Error:",
	KeyCommand:     "command",
	KeyHasReg:      "has been registered",
	KeyTooLong:     "Output is too long",
	KeyRunError:    "Something went wrong",
	KeyUseMethod:   "Usage",
}

type trackCall struct {
	identity int64
	event    string
	props    map[string]any
}

type fakeTracker struct {
	calls []trackCall
	err   error
}

func (t *fakeTracker) Track(_ context.Context, identity int64, event string, props map[string]any) error {
	t.calls = append(t.calls, trackCall{identity: identity, event: event, props: props})
	return t.err
}

type fakeDelivery struct {
	reports []Report
	err     error
}

func (d *fakeDelivery) AttachReport(_ context.Context, r Report) error {
	d.reports = append(d.reports, r)
	return d.err
}
