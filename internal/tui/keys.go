package tui

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

var runeCodes = map[rune]string{
	'w': "KeyW",
	'a': "KeyA",
	's': "KeyS",
	'd': "KeyD",
	'q': "KeyQ",
	'e': "KeyE",
	'f': "KeyF",
	'g': "KeyG",
	' ': "Space",
	// terminals cannot report a bare shift
	'x': "ShiftLeft",
}

var keyCodes = map[tcell.Key]string{
	tcell.KeyUp:     "ArrowUp",
	tcell.KeyDown:   "ArrowDown",
	tcell.KeyLeft:   "ArrowLeft",
	tcell.KeyRight:  "ArrowRight",
	tcell.KeyEnter:  "Enter",
	tcell.KeyEscape: "Escape",
}

// CodeFor maps a terminal key event to the DOM code the game binds.
func CodeFor(ev *tcell.EventKey) (string, bool) {
	if ev.Key() == tcell.KeyRune {
		code, ok := runeCodes[unicode.ToLower(ev.Rune())]
		return code, ok
	}
	code, ok := keyCodes[ev.Key()]
	return code, ok
}

// IsQuit reports whether ev asks to leave the program.
func IsQuit(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'Q')
}
