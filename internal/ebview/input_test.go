package ebview

import (
	"testing"

	mandel "github.com/marben/mandelzoom"
)

func TestFires(t *testing.T) {
	tests := []struct {
		ticks   int
		repeats bool
		want    bool
	}{
		{0, true, false},
		{1, true, true},
		{1, false, true},
		{2, true, false},
		{repeatDelay - 1, true, false},
		{repeatDelay, true, true},
		{repeatDelay, false, false},
		{repeatDelay + 1, true, false},
		{repeatDelay + repeatInterval, true, true},
		{repeatDelay + repeatInterval, false, false},
	}
	for _, tt := range tests {
		if got := fires(tt.ticks, tt.repeats); got != tt.want {
			t.Errorf("fires(%d, %v) = %v, want %v", tt.ticks, tt.repeats, got, tt.want)
		}
	}
}

func TestBindingsCoverActions(t *testing.T) {
	bound := make(map[mandel.Action]bool)
	for _, b := range bindings {
		bound[b.action] = true
	}
	for a := mandel.ActionPanLeft; a <= mandel.ActionLandmark6; a++ {
		if !bound[a] {
			t.Errorf("%v has no key", a)
		}
	}
}
