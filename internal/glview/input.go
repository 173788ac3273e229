package glview

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	mandel "github.com/marben/mandelzoom"
)

var keyActions = map[glfw.Key]mandel.Action{
	glfw.KeyA:     mandel.ActionPanLeft,
	glfw.KeyLeft:  mandel.ActionPanLeft,
	glfw.KeyD:     mandel.ActionPanRight,
	glfw.KeyRight: mandel.ActionPanRight,
	glfw.KeyW:     mandel.ActionPanUp,
	glfw.KeyUp:    mandel.ActionPanUp,
	glfw.KeyS:     mandel.ActionPanDown,
	glfw.KeyDown:  mandel.ActionPanDown,

	glfw.KeyI: mandel.ActionZoomIn,
	glfw.KeyO: mandel.ActionZoomOut,

	glfw.KeyEqual:      mandel.ActionIterationsUp,
	glfw.KeyKPAdd:      mandel.ActionIterationsUp,
	glfw.KeyMinus:      mandel.ActionIterationsDown,
	glfw.KeyKPSubtract: mandel.ActionIterationsDown,

	glfw.KeyEscape: mandel.ActionQuit,
	glfw.KeyR:      mandel.ActionReset,
	glfw.KeyP:      mandel.ActionCyclePalette,
	glfw.KeyF12:    mandel.ActionSnapshot,

	glfw.Key1: mandel.ActionLandmark1,
	glfw.Key2: mandel.ActionLandmark2,
	glfw.Key3: mandel.ActionLandmark3,
	glfw.Key4: mandel.ActionLandmark4,
	glfw.Key5: mandel.ActionLandmark5,
	glfw.Key6: mandel.ActionLandmark6,
}

// actionFor maps a key event to an action. Held keys repeat only the
// actions that make sense to repeat.
func actionFor(key glfw.Key, action glfw.Action) mandel.Action {
	a, ok := keyActions[key]
	if !ok {
		return mandel.ActionNone
	}
	switch action {
	case glfw.Press:
		return a
	case glfw.Repeat:
		if a.Repeats() {
			return a
		}
	}
	return mandel.ActionNone
}

// eventQueue collects what glfw callbacks report between frames.
// Callbacks run inside PollEvents on the main thread, so no locking.
type eventQueue struct {
	actions []mandel.Action
	wheel   []float64
}

func (q *eventQueue) attach(win *glfw.Window) {
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		q.key(key, action)
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		q.scroll(yoff)
	})
}

func (q *eventQueue) key(key glfw.Key, action glfw.Action) {
	if a := actionFor(key, action); a != mandel.ActionNone {
		q.actions = append(q.actions, a)
	}
}

func (q *eventQueue) scroll(yoff float64) {
	q.wheel = append(q.wheel, yoff)
}

// drain hands over the queued events and empties the queue.
func (q *eventQueue) drain() ([]mandel.Action, []float64) {
	actions, wheel := q.actions, q.wheel
	q.actions, q.wheel = nil, nil
	return actions, wheel
}
