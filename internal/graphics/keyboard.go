package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// KeySink receives key transitions as DOM key codes.
type KeySink interface {
	KeyDown(code string) bool
	KeyUp(code string) bool
	ReleaseAll()
}

var domCodes = map[int32]string{
	rl.KeyW:          "KeyW",
	rl.KeyA:          "KeyA",
	rl.KeyS:          "KeyS",
	rl.KeyD:          "KeyD",
	rl.KeyQ:          "KeyQ",
	rl.KeyE:          "KeyE",
	rl.KeyF:          "KeyF",
	rl.KeyG:          "KeyG",
	rl.KeyUp:         "ArrowUp",
	rl.KeyDown:       "ArrowDown",
	rl.KeyLeft:       "ArrowLeft",
	rl.KeyRight:      "ArrowRight",
	rl.KeySpace:      "Space",
	rl.KeyLeftShift:  "ShiftLeft",
	rl.KeyRightShift: "ShiftRight",
	rl.KeyEnter:      "Enter",
	rl.KeyKpEnter:    "Enter",
	rl.KeyEscape:     "Escape",
}

// Keyboard forwards raylib key state to a KeySink.
type Keyboard struct {
	sink KeySink
	// Suspended drops all key state, e.g. while the console has focus.
	suspended bool
}

func NewKeyboard(sink KeySink) *Keyboard {
	return &Keyboard{sink: sink}
}

// Suspend stops forwarding and releases every held key; Resume restarts forwarding.
func (k *Keyboard) Suspend() {
	k.suspended = true
	k.sink.ReleaseAll()
}

func (k *Keyboard) Resume() { k.suspended = false }

// Poll forwards this frame's presses and releases. Call once per frame before the
// session advances.
func (k *Keyboard) Poll() {
	if k.suspended {
		return
	}
	for key, code := range domCodes {
		if rl.IsKeyPressed(key) {
			k.sink.KeyDown(code)
		}
		if rl.IsKeyReleased(key) {
			k.sink.KeyUp(code)
		}
	}
}
