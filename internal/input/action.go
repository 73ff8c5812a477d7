package input

// Action is a semantic control, independent of the physical key that produced it.
type Action uint8

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionTurnLeft
	ActionTurnRight
	ActionStrafeLeft
	ActionStrafeRight
	ActionAscend
	ActionDescend
	ActionToggleGear
	ActionInteract
	ActionConfirm
	ActionCancel
)

var actionNames = [...]string{
	ActionNone:        "none",
	ActionForward:     "forward",
	ActionBackward:    "backward",
	ActionTurnLeft:    "turnLeft",
	ActionTurnRight:   "turnRight",
	ActionStrafeLeft:  "strafeLeft",
	ActionStrafeRight: "strafeRight",
	ActionAscend:      "ascend",
	ActionDescend:     "descend",
	ActionToggleGear:  "toggleGear",
	ActionInteract:    "interact",
	ActionConfirm:     "confirm",
	ActionCancel:      "cancel",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// IsPress reports whether a is a discrete action dispatched once per key press,
// as opposed to a held flag sampled every tick.
func (a Action) IsPress() bool {
	switch a {
	case ActionInteract, ActionConfirm, ActionCancel:
		return true
	}
	return false
}

// bindings maps DOM KeyboardEvent.code names to actions. E doubles as strafe-right in
// flight and confirm on menus.
var bindings = map[string][]Action{
	"KeyW":       {ActionForward},
	"ArrowUp":    {ActionForward},
	"KeyS":       {ActionBackward},
	"ArrowDown":  {ActionBackward},
	"KeyA":       {ActionTurnLeft},
	"ArrowLeft":  {ActionTurnLeft},
	"KeyD":       {ActionTurnRight},
	"ArrowRight": {ActionTurnRight},
	"KeyQ":       {ActionStrafeLeft},
	"KeyE":       {ActionStrafeRight, ActionConfirm},
	"Space":      {ActionAscend},
	"ShiftLeft":  {ActionDescend},
	"ShiftRight": {ActionDescend},
	"KeyG":       {ActionToggleGear},
	"KeyF":       {ActionInteract},
	"Enter":      {ActionConfirm},
	"Escape":     {ActionCancel},
}

// Bindings returns the actions bound to a key code; nil for unknown codes.
func Bindings(code string) []Action {
	return bindings[code]
}
