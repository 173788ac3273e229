package ebview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	mandel "github.com/marben/mandelzoom"
)

// Key repeat schedule in ticks, close to a desktop default at 60 TPS.
const (
	repeatDelay    = 30
	repeatInterval = 3
)

type binding struct {
	key    ebiten.Key
	action mandel.Action
}

var bindings = []binding{
	{ebiten.KeyA, mandel.ActionPanLeft},
	{ebiten.KeyArrowLeft, mandel.ActionPanLeft},
	{ebiten.KeyD, mandel.ActionPanRight},
	{ebiten.KeyArrowRight, mandel.ActionPanRight},
	{ebiten.KeyW, mandel.ActionPanUp},
	{ebiten.KeyArrowUp, mandel.ActionPanUp},
	{ebiten.KeyS, mandel.ActionPanDown},
	{ebiten.KeyArrowDown, mandel.ActionPanDown},

	{ebiten.KeyI, mandel.ActionZoomIn},
	{ebiten.KeyO, mandel.ActionZoomOut},

	{ebiten.KeyEqual, mandel.ActionIterationsUp},
	{ebiten.KeyNumpadAdd, mandel.ActionIterationsUp},
	{ebiten.KeyMinus, mandel.ActionIterationsDown},
	{ebiten.KeyNumpadSubtract, mandel.ActionIterationsDown},

	{ebiten.KeyEscape, mandel.ActionQuit},
	{ebiten.KeyR, mandel.ActionReset},
	{ebiten.KeyP, mandel.ActionCyclePalette},
	{ebiten.KeyF12, mandel.ActionSnapshot},

	{ebiten.KeyDigit1, mandel.ActionLandmark1},
	{ebiten.KeyDigit2, mandel.ActionLandmark2},
	{ebiten.KeyDigit3, mandel.ActionLandmark3},
	{ebiten.KeyDigit4, mandel.ActionLandmark4},
	{ebiten.KeyDigit5, mandel.ActionLandmark5},
	{ebiten.KeyDigit6, mandel.ActionLandmark6},
}

// pressedActions returns the actions whose keys fire this tick.
func pressedActions() []mandel.Action {
	var actions []mandel.Action
	for _, b := range bindings {
		if fires(inpututil.KeyPressDuration(b.key), b.action.Repeats()) {
			actions = append(actions, b.action)
		}
	}
	return actions
}

// fires reports whether a key held for ticks ticks triggers its action now:
// on the first tick, then for repeating actions every repeatInterval ticks
// once repeatDelay has passed.
func fires(ticks int, repeats bool) bool {
	switch {
	case ticks == 1:
		return true
	case !repeats || ticks < repeatDelay:
		return false
	default:
		return (ticks-repeatDelay)%repeatInterval == 0
	}
}
