package platform

import "sync"

// InterruptSink receives interrupt assertions for a given line.
type InterruptSink interface {
	SetIRQ(line int, level bool)
}

// InputLine models one device's level-triggered interrupt line.
type InputLine interface {
	SetLevel(high bool)
	Pulse()
}

type noopInputLine struct{}

func (noopInputLine) SetLevel(bool) {}
func (noopInputLine) Pulse()        {}

// InputLineDetached returns an InputLine that drops all signals.
func InputLineDetached() InputLine {
	return noopInputLine{}
}

// LineSet hands out per-device line handles and forwards deduplicated level
// changes into an interrupt sink.
type LineSet struct {
	mu sync.Mutex

	sink  InterruptSink
	lines map[int]*lineState
}

// NewLineSet builds a LineSet that forwards assertions to the provided sink.
func NewLineSet(sink InterruptSink) *LineSet {
	if sink == nil {
		sink = noopInterruptSink{}
	}
	return &LineSet{
		sink:  sink,
		lines: make(map[int]*lineState),
	}
}

// AllocateLine returns an InputLine handle for the given line number.
func (l *LineSet) AllocateLine(line int) InputLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.lines[line]; !ok {
		l.lines[line] = &lineState{}
	}
	return &lineHandle{owner: l, line: line}
}

type lineState struct {
	level bool
}

type lineHandle struct {
	owner *LineSet
	line  int
}

func (h *lineHandle) SetLevel(high bool) {
	h.owner.setLevel(h.line, high)
}

func (h *lineHandle) Pulse() {
	h.owner.pulse(h.line)
}

func (l *LineSet) setLevel(line int, high bool) {
	l.mu.Lock()
	state := l.lines[line]
	if state == nil {
		state = &lineState{}
		l.lines[line] = state
	}
	changed := state.level != high
	state.level = high
	l.mu.Unlock()

	if changed {
		l.sink.SetIRQ(line, high)
	}
}

func (l *LineSet) pulse(line int) {
	l.setLevel(line, true)
	l.setLevel(line, false)
}

type noopInterruptSink struct{}

func (noopInterruptSink) SetIRQ(int, bool) {}
