package tui

import (
	"sort"
	"time"
)

// Terminals report presses and auto-repeats but never releases, so a key counts
// as held until its repeats stop.
const (
	// DefaultInitialHold covers the OS delay before the first auto-repeat.
	DefaultInitialHold = 550 * time.Millisecond
	// DefaultRepeatHold covers the gap between auto-repeats.
	DefaultRepeatHold = 120 * time.Millisecond
)

// KeySink receives emulated key transitions as DOM key codes.
type KeySink interface {
	KeyDown(code string) bool
	KeyUp(code string) bool
}

// Holder turns a stream of key events into down/up transitions.
type Holder struct {
	sink    KeySink
	initial time.Duration
	repeat  time.Duration
	until   map[string]time.Duration
}

// NewHolder returns a Holder feeding sink. Non-positive durations use the defaults.
func NewHolder(sink KeySink, initial, repeat time.Duration) *Holder {
	if initial <= 0 {
		initial = DefaultInitialHold
	}
	if repeat <= 0 {
		repeat = DefaultRepeatHold
	}
	return &Holder{sink: sink, initial: initial, repeat: repeat, until: make(map[string]time.Duration)}
}

// Press records a key event at now. The first event for a key sends KeyDown;
// later ones only extend the hold.
func (h *Holder) Press(code string, now time.Duration) {
	if _, held := h.until[code]; held {
		h.until[code] = now + h.repeat
		return
	}
	h.until[code] = now + h.initial
	h.sink.KeyDown(code)
}

// Expire releases every key whose hold ran out by now, in code order.
func (h *Holder) Expire(now time.Duration) {
	var done []string
	for code, until := range h.until {
		if now >= until {
			done = append(done, code)
		}
	}
	sort.Strings(done)
	for _, code := range done {
		delete(h.until, code)
		h.sink.KeyUp(code)
	}
}

// Held reports whether code is currently held.
func (h *Holder) Held(code string) bool {
	_, ok := h.until[code]
	return ok
}
