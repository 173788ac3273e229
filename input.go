package mandel

// Action is a discrete, key driven command.
type Action int

const (
	ActionNone Action = iota
	ActionPanLeft
	ActionPanRight
	ActionPanUp
	ActionPanDown
	ActionZoomIn
	ActionZoomOut
	ActionIterationsUp
	ActionIterationsDown
	ActionQuit
	ActionReset
	ActionCyclePalette
	ActionSnapshot
	ActionLandmark1
	ActionLandmark2
	ActionLandmark3
	ActionLandmark4
	ActionLandmark5
	ActionLandmark6
)

var actionNames = map[Action]string{
	ActionNone:           "none",
	ActionPanLeft:        "pan-left",
	ActionPanRight:       "pan-right",
	ActionPanUp:          "pan-up",
	ActionPanDown:        "pan-down",
	ActionZoomIn:         "zoom-in",
	ActionZoomOut:        "zoom-out",
	ActionIterationsUp:   "iterations-up",
	ActionIterationsDown: "iterations-down",
	ActionQuit:           "quit",
	ActionReset:          "reset",
	ActionCyclePalette:   "cycle-palette",
	ActionSnapshot:       "snapshot",
	ActionLandmark1:      "landmark-1",
	ActionLandmark2:      "landmark-2",
	ActionLandmark3:      "landmark-3",
	ActionLandmark4:      "landmark-4",
	ActionLandmark5:      "landmark-5",
	ActionLandmark6:      "landmark-6",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Repeats reports whether holding the bound key should fire the action
// again at the key repeat rate. One-shot actions fire once per press.
func (a Action) Repeats() bool {
	switch a {
	case ActionPanLeft, ActionPanRight, ActionPanUp, ActionPanDown,
		ActionZoomIn, ActionZoomOut, ActionIterationsUp, ActionIterationsDown:
		return true
	}
	return false
}

// landmark returns the index into Landmarks for a landmark action.
func (a Action) landmark() (int, bool) {
	if a < ActionLandmark1 || a > ActionLandmark6 {
		return 0, false
	}
	return int(a - ActionLandmark1), true
}

// Input is everything a backend sampled from the window during one frame.
type Input struct {
	// Framebuffer size in pixels. Zero while minimised.
	Width, Height int

	// Cursor in framebuffer pixels, origin top-left.
	Cursor Point

	// Primary is true while the primary pointer button is held.
	Primary bool

	// Wheel holds the vertical scroll offsets received this frame, in order.
	// Positive scrolls zoom in.
	Wheel []float64

	// Actions holds key actions in the order they fired.
	Actions []Action
}
