package chart

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"covid-spread/domain/timeseries"
)

// LineStyle is the dash pattern of a line
type LineStyle string

const (
	Solid  LineStyle = "solid"
	Dashed LineStyle = "dashed"
	Dotted LineStyle = "dotted"
)

// Line is one plotted series
type Line struct {
	Label string
	Color color.RGBA
	Style LineStyle
	Width float64
	X     []float64
	Y     []float64
}

// Label is a text annotation placed in data coordinates
type Label struct {
	Text     string
	X        float64
	Y        float64
	Color    color.RGBA
	Rotation float64 // radians
	Size     float64 // points
}

// Marker is a short vertical tick rising from the x axis
type Marker struct {
	X              float64
	HeightFraction float64
	Width          float64
	Color          color.RGBA
}

// LegendEntry is one line of the legend
type LegendEntry struct {
	Text  string
	Color color.RGBA
	Style LineStyle
}

// Frame describes one chart image of the video
type Frame struct {
	Index  int
	MaxDay timeseries.Day
	Date   time.Time

	Lines   []Line
	Labels  []Label
	Markers []Marker
	Legend  []LegendEntry

	XMin, XMax float64
	YMin, YMax float64
	XLabel     string
	YLabel     string

	// Width and Height are in pixels
	Width  int
	Height int
}

// Renderer draws a frame to an image file.
// This is a port that can be implemented by different plotting backends.
type Renderer interface {
	Render(ctx context.Context, frame Frame, path string) error
}

// FrameName returns the image file name of the frame for day
func FrameName(day timeseries.Day) string {
	return fmt.Sprintf("day%d.png", day)
}

// FramePattern is the glob matching every frame image name
const FramePattern = "day*.png"
