package glview

import (
	"slices"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"

	mandel "github.com/marben/mandelzoom"
)

func TestActionFor(t *testing.T) {
	tests := []struct {
		key    glfw.Key
		action glfw.Action
		want   mandel.Action
	}{
		{glfw.KeyA, glfw.Press, mandel.ActionPanLeft},
		{glfw.KeyLeft, glfw.Repeat, mandel.ActionPanLeft},
		{glfw.KeyUp, glfw.Press, mandel.ActionPanUp},
		{glfw.KeyS, glfw.Repeat, mandel.ActionPanDown},
		{glfw.KeyI, glfw.Repeat, mandel.ActionZoomIn},
		{glfw.KeyO, glfw.Press, mandel.ActionZoomOut},
		{glfw.KeyEqual, glfw.Repeat, mandel.ActionIterationsUp},
		{glfw.KeyMinus, glfw.Press, mandel.ActionIterationsDown},
		{glfw.KeyEscape, glfw.Press, mandel.ActionQuit},
		{glfw.KeyF12, glfw.Press, mandel.ActionSnapshot},
		{glfw.Key3, glfw.Press, mandel.ActionLandmark3},

		{glfw.KeyA, glfw.Release, mandel.ActionNone},
		{glfw.KeyEscape, glfw.Repeat, mandel.ActionNone},
		{glfw.KeyP, glfw.Repeat, mandel.ActionNone},
		{glfw.KeyQ, glfw.Press, mandel.ActionNone},
	}
	for _, tt := range tests {
		if got := actionFor(tt.key, tt.action); got != tt.want {
			t.Errorf("actionFor(%v, %v) = %v, want %v", tt.key, tt.action, got, tt.want)
		}
	}
}

func TestEventQueue(t *testing.T) {
	var q eventQueue
	q.key(glfw.KeyI, glfw.Press)
	q.key(glfw.KeyI, glfw.Release)
	q.scroll(1)
	q.key(glfw.KeyR, glfw.Press)
	q.scroll(-2)

	actions, wheel := q.drain()
	if want := []mandel.Action{mandel.ActionZoomIn, mandel.ActionReset}; !slices.Equal(actions, want) {
		t.Errorf("actions %v, want %v", actions, want)
	}
	if want := []float64{1, -2}; !slices.Equal(wheel, want) {
		t.Errorf("wheel %v, want %v", wheel, want)
	}

	if actions, wheel := q.drain(); actions != nil || wheel != nil {
		t.Errorf("queue not empty after drain: %v %v", actions, wheel)
	}
}

func TestToFramebuffer(t *testing.T) {
	tests := []struct {
		name                 string
		x, y                 float64
		winW, winH, fbW, fbH int
		want                 mandel.Point
	}{
		{"same size", 10, 20, 800, 600, 800, 600, mandel.Point{X: 10, Y: 20}},
		{"retina", 10, 20, 800, 600, 1600, 1200, mandel.Point{X: 20, Y: 40}},
		{"minimised", 10, 20, 0, 0, 0, 0, mandel.Point{X: 10, Y: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toFramebuffer(tt.x, tt.y, tt.winW, tt.winH, tt.fbW, tt.fbH); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
