package mandel

// Result tells the render loop what to do after a frame's input was applied.
type Result struct {
	// Quit asks the loop to close the window.
	Quit bool
	// Snapshot asks for a CPU render of the current view.
	Snapshot bool
}

// Controller owns the viewport and applies one frame of input at a time.
// It is not safe for concurrent use; it belongs to the render loop.
type Controller struct {
	view    Viewport
	gesture Gesture
	palette Palette
	cursor  Point
}

// NewController starts from v. A zero Zoom or iteration cap is replaced by
// the defaults.
func NewController(v Viewport) *Controller {
	if v.Zoom == 0 {
		v.Zoom = 1
	}
	v.clampZoom()
	if v.MaxIterations == 0 {
		v.MaxIterations = IterationsDefault
	}
	v.MaxIterations = min(max(v.MaxIterations, IterationsMin), IterationsMax)
	return &Controller{view: v}
}

func (c *Controller) Viewport() Viewport    { return c.view }
func (c *Controller) Palette() Palette      { return c.palette }
func (c *Controller) SetPalette(p Palette)  { c.palette = p }
func (c *Controller) Gesture() GestureState { return c.gesture.State() }

// Cursor is the plane point under the cursor as of the last Step.
func (c *Controller) Cursor() Point { return c.cursor }

// Snapshot copies the controller state for publishing.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Center:        c.view.Center,
		Zoom:          c.view.Zoom,
		MaxIterations: c.view.MaxIterations,
		Width:         c.view.Width,
		Height:        c.view.Height,
		Palette:       c.palette,
		Cursor:        c.cursor,
	}
}

// Title is the window title for the current frame.
func (c *Controller) Title() string {
	return Title(c.view, c.cursor)
}

// Step applies one frame of input: resize, key actions, wheel zoom, then
// the pan gesture.
func (c *Controller) Step(in Input) Result {
	var res Result

	c.view.Resize(in.Width, in.Height)

	for _, a := range in.Actions {
		switch a {
		case ActionQuit:
			res.Quit = true
		case ActionSnapshot:
			res.Snapshot = true
		default:
			c.apply(a)
		}
	}

	p := FlipY(in.Cursor, c.view.Height)
	for _, dy := range in.Wheel {
		if dy != 0 {
			c.view.ZoomAt(p, dy > 0)
		}
	}

	c.gesture.Update(&c.view, in.Cursor, in.Primary)
	c.cursor = c.view.ToPlane(p)

	return res
}

func (c *Controller) apply(a Action) {
	switch a {
	case ActionPanLeft:
		c.view.PanKey(Left)
	case ActionPanRight:
		c.view.PanKey(Right)
	case ActionPanUp:
		c.view.PanKey(Up)
	case ActionPanDown:
		c.view.PanKey(Down)
	case ActionZoomIn:
		c.view.ZoomKey(true)
	case ActionZoomOut:
		c.view.ZoomKey(false)
	case ActionIterationsUp:
		c.view.AdjustIterations(true)
	case ActionIterationsDown:
		c.view.AdjustIterations(false)
	case ActionCyclePalette:
		c.palette = c.palette.Next()
	case ActionReset:
		c.jump(NewViewport(c.view.Width, c.view.Height))
	default:
		if i, ok := a.landmark(); ok && i < len(Landmarks) {
			v := Landmarks[i].Region.Viewport(c.view.Width, c.view.Height)
			v.MaxIterations = c.view.MaxIterations
			c.jump(v)
		}
	}
}

// jump replaces the view outright. A drag in progress is dropped so it
// re-anchors against the new view on the next frame.
func (c *Controller) jump(v Viewport) {
	c.view = v
	c.gesture.Cancel()
}
