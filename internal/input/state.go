package input

import "sync"

// Flags is the per-tick view of held controls. A flag is true iff at least one key
// bound to it is currently down.
type Flags struct {
	Forward     bool
	Backward    bool
	StrafeLeft  bool
	StrafeRight bool
	Up          bool
	Down        bool
	TurnLeft    bool
	TurnRight   bool
	ToggleGear  bool
}

// Any reports whether any movement control is held.
func (f Flags) Any() bool {
	return f.Forward || f.Backward || f.StrafeLeft || f.StrafeRight || f.Up || f.Down || f.TurnLeft || f.TurnRight
}

func (f *Flags) set(a Action, v bool) {
	switch a {
	case ActionForward:
		f.Forward = v
	case ActionBackward:
		f.Backward = v
	case ActionStrafeLeft:
		f.StrafeLeft = v
	case ActionStrafeRight:
		f.StrafeRight = v
	case ActionAscend:
		f.Up = v
	case ActionDescend:
		f.Down = v
	case ActionTurnLeft:
		f.TurnLeft = v
	case ActionTurnRight:
		f.TurnRight = v
	case ActionToggleGear:
		f.ToggleGear = v
	}
}

// State collects key events from any goroutine and hands the frame loop a consistent
// snapshot once per tick. Press-type actions are forwarded to the Dispatcher.
type State struct {
	mu    sync.Mutex
	down  map[string]bool
	held  map[Action]int // number of bound keys currently down
	flags Flags
	disp  *Dispatcher
}

// NewState returns an empty input state. disp may be nil when no press listeners are needed.
func NewState(disp *Dispatcher) *State {
	return &State{
		down: make(map[string]bool),
		held: make(map[Action]int),
		disp: disp,
	}
}

// KeyDown records a key press by code. Unknown codes and auto-repeat for a key that is
// already down are ignored. Returns whether the code is bound.
func (s *State) KeyDown(code string) bool {
	actions := bindings[code]
	if len(actions) == 0 {
		return false
	}
	var presses []Action
	s.mu.Lock()
	if s.down[code] {
		s.mu.Unlock()
		return true
	}
	s.down[code] = true
	for _, a := range actions {
		if a.IsPress() {
			presses = append(presses, a)
			continue
		}
		s.held[a]++
		s.flags.set(a, true)
	}
	s.mu.Unlock()

	if s.disp != nil {
		for _, a := range presses {
			s.disp.Press(a)
		}
	}
	return true
}

// KeyUp records a key release by code. Unknown codes are ignored.
func (s *State) KeyUp(code string) bool {
	actions := bindings[code]
	if len(actions) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.down[code] {
		return true
	}
	delete(s.down, code)
	for _, a := range actions {
		if a.IsPress() {
			continue
		}
		if s.held[a] > 0 {
			s.held[a]--
		}
		if s.held[a] == 0 {
			s.flags.set(a, false)
		}
	}
	return true
}

// IsDown reports whether the key with the given code is currently held.
func (s *State) IsDown(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.down[code]
}

// ReleaseAll clears every held key, e.g. when the window loses focus.
func (s *State) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = make(map[string]bool)
	s.held = make(map[Action]int)
	s.flags = Flags{}
}

// Snapshot returns a copy of the held flags. Events arriving after the call are only
// visible in the next snapshot.
func (s *State) Snapshot() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags
}
