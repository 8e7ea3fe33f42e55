package analysis

const (
	zoomBase = 1.0
	zoomStep = 0.25
	zoomMin  = 0.5
	zoomMax  = 3.0
)

// Viewer tracks the fullscreen image viewer: which plot is open, if any, and
// the current zoom factor. The zero value is a closed viewer.
type Viewer struct {
	plot *Plot
	zoom float64
}

// Open shows a plot fullscreen and resets zoom to the base factor.
func (v *Viewer) Open(plot Plot) {
	v.plot = &plot
	v.zoom = zoomBase
}

// Close dismisses the viewer and clears its state.
func (v *Viewer) Close() {
	v.plot = nil
	v.zoom = 0
}

// IsOpen reports whether a plot is currently shown.
func (v *Viewer) IsOpen() bool {
	return v.plot != nil
}

// Plot returns the open plot, or false when the viewer is closed.
func (v *Viewer) Plot() (Plot, bool) {
	if v.plot == nil {
		return Plot{}, false
	}
	return *v.plot, true
}

// Zoom returns the current zoom factor. Closed viewers report zero.
func (v *Viewer) Zoom() float64 {
	return v.zoom
}

// ZoomIn raises the zoom factor one step, clamped at the upper bound. It is a
// no-op while the viewer is closed.
func (v *Viewer) ZoomIn() {
	if v.plot == nil {
		return
	}
	v.zoom += zoomStep
	if v.zoom > zoomMax {
		v.zoom = zoomMax
	}
}

// ZoomOut lowers the zoom factor one step, clamped at the lower bound. It is
// a no-op while the viewer is closed.
func (v *Viewer) ZoomOut() {
	if v.plot == nil {
		return
	}
	v.zoom -= zoomStep
	if v.zoom < zoomMin {
		v.zoom = zoomMin
	}
}

// ResetZoom restores the base zoom factor without closing the viewer.
func (v *Viewer) ResetZoom() {
	if v.plot == nil {
		return
	}
	v.zoom = zoomBase
}
