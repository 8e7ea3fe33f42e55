package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewerLifecycle(t *testing.T) {
	var viewer Viewer

	assert.False(t, viewer.IsOpen())
	assert.Zero(t, viewer.Zoom())

	plot := Plot{Name: "age_histogram", Title: "age histogram", ImageURL: "data:image/png;base64,eA=="}
	viewer.Open(plot)

	assert.True(t, viewer.IsOpen())
	opened, ok := viewer.Plot()
	assert.True(t, ok)
	assert.Equal(t, plot, opened)
	assert.Equal(t, 1.0, viewer.Zoom())

	viewer.Close()
	assert.False(t, viewer.IsOpen())
	_, ok = viewer.Plot()
	assert.False(t, ok)
	assert.Zero(t, viewer.Zoom())
}

func TestViewerZoomClamps(t *testing.T) {
	var viewer Viewer
	viewer.Open(Plot{Name: "p"})

	viewer.ZoomIn()
	assert.Equal(t, 1.25, viewer.Zoom())

	for i := 0; i < 20; i++ {
		viewer.ZoomIn()
	}
	assert.Equal(t, 3.0, viewer.Zoom())

	for i := 0; i < 20; i++ {
		viewer.ZoomOut()
	}
	assert.Equal(t, 0.5, viewer.Zoom())

	viewer.ResetZoom()
	assert.Equal(t, 1.0, viewer.Zoom())
}

func TestViewerReopenResetsZoom(t *testing.T) {
	var viewer Viewer
	viewer.Open(Plot{Name: "a"})
	viewer.ZoomIn()
	viewer.ZoomIn()

	viewer.Open(Plot{Name: "b"})
	assert.Equal(t, 1.0, viewer.Zoom())

	current, _ := viewer.Plot()
	assert.Equal(t, "b", current.Name)
}

func TestViewerZoomNoopWhenClosed(t *testing.T) {
	var viewer Viewer
	viewer.ZoomIn()
	viewer.ZoomOut()
	viewer.ResetZoom()
	assert.Zero(t, viewer.Zoom())
}
