package mandel

// GestureState is the state of the drag-to-pan gesture.
type GestureState int

const (
	Idle GestureState = iota
	Panning
)

func (s GestureState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	default:
		return "unknown"
	}
}

// Gesture tracks a primary button drag. While panning, the plane point
// grabbed at press time stays under the cursor.
type Gesture struct {
	state  GestureState
	anchor Point
}

func (g *Gesture) State() GestureState { return g.state }

// Anchor is the plane point being dragged. Only meaningful while panning.
func (g *Gesture) Anchor() Point { return g.anchor }

// Update advances the gesture by one frame given the top-left origin
// cursor position and whether the primary button is held, panning v as
// needed.
func (g *Gesture) Update(v *Viewport, cursor Point, pressed bool) {
	switch g.state {
	case Idle:
		if pressed {
			g.state = Panning
			g.anchor = v.CursorToPlane(cursor)
		}
	case Panning:
		if !pressed {
			g.state = Idle
			return
		}
		v.Pan(v.CursorToPlane(cursor).Sub(g.anchor))
		// Same point as the old anchor, up to rounding.
		g.anchor = v.CursorToPlane(cursor)
	}
}

// Cancel drops an active drag without moving the view.
func (g *Gesture) Cancel() {
	g.state = Idle
}
