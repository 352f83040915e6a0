package gochart

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"covid-spread/domain/chart"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	legendFontSize = 9
	legendRow      = 14
	legendSwatch   = 22
	legendWidth    = 110
	legendPadding  = 12

	// room for the rotated source caption right of the plot
	captionRoom = 70
)

// Renderer implements chart.Renderer with go-chart
type Renderer struct{}

// NewRenderer creates a new go-chart renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws frame and saves it as a PNG at path
func (r *Renderer) Render(ctx context.Context, frame chart.Frame, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch := r.Chart(frame)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create frame directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create frame %d: %w", frame.Index, err)
	}

	if err := ch.Render(gochart.PNG, f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to render frame %d: %w", frame.Index, err)
	}
	return f.Close()
}

// Chart builds the go-chart chart for frame
func (r *Renderer) Chart(frame chart.Frame) gochart.Chart {
	var series []gochart.Series

	for _, l := range frame.Lines {
		if len(l.X) == 0 {
			continue
		}
		xs, ys := l.X, l.Y
		// go-chart needs two points to draw a line
		if len(xs) == 1 {
			xs = []float64{xs[0], xs[0]}
			ys = []float64{ys[0], ys[0]}
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    l.Label,
			Style:   strokeStyle(l.Color, l.Style, l.Width),
			XValues: xs,
			YValues: ys,
		})
	}

	for _, m := range frame.Markers {
		top := frame.YMin + m.HeightFraction*(frame.YMax-frame.YMin)
		series = append(series, gochart.ContinuousSeries{
			Style:   strokeStyle(m.Color, chart.Solid, m.Width),
			XValues: []float64{m.X, m.X},
			YValues: []float64{frame.YMin, top},
		})
	}

	ch := gochart.Chart{
		Width:  frame.Width,
		Height: frame.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 20, Left: 20, Right: captionRoom, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:  frame.XLabel,
			Range: &gochart.ContinuousRange{Min: frame.XMin, Max: frame.XMax},
		},
		YAxis: gochart.YAxis{
			Name:  frame.YLabel,
			Range: &gochart.ContinuousRange{Min: frame.YMin, Max: frame.YMax},
		},
		Series: series,
	}
	if len(frame.Labels) > 0 {
		ch.Elements = append(ch.Elements, labels(frame))
	}
	if len(frame.Legend) > 0 {
		ch.Elements = append(ch.Elements, legend(frame.Legend))
	}
	return ch
}

// labels draws the frame's text at its data coordinates. AnnotationSeries
// cannot rotate text, so the labels are drawn directly on the canvas.
func labels(frame chart.Frame) gochart.Renderable {
	return func(r gochart.Renderer, box gochart.Box, defaults gochart.Style) {
		r.SetFont(defaults.GetFont())
		for _, lb := range frame.Labels {
			x, y := toCanvas(frame, box, lb.X, lb.Y)
			r.SetFontColor(toColor(lb.Color))
			r.SetFontSize(lb.Size)
			if lb.Rotation != 0 {
				// go-chart rotates clockwise on the canvas
				r.SetTextRotation(-lb.Rotation)
			}
			r.Text(lb.Text, x, y)
			if lb.Rotation != 0 {
				r.ClearTextRotation()
			}
		}
	}
}

// toCanvas maps data coordinates into the plot box; values outside the
// axis ranges land in the padding around it
func toCanvas(frame chart.Frame, box gochart.Box, x, y float64) (int, int) {
	px := float64(box.Left)
	if frame.XMax > frame.XMin {
		px += (x - frame.XMin) / (frame.XMax - frame.XMin) * float64(box.Width())
	}
	py := float64(box.Bottom)
	if frame.YMax > frame.YMin {
		py -= (y - frame.YMin) / (frame.YMax - frame.YMin) * float64(box.Height())
	}
	return int(math.Round(px)), int(math.Round(py))
}

// legend draws the line-style key in the top right corner of the canvas
func legend(entries []chart.LegendEntry) gochart.Renderable {
	return func(r gochart.Renderer, box gochart.Box, defaults gochart.Style) {
		r.SetFont(defaults.GetFont())
		r.SetFontSize(legendFontSize)

		x := box.Right - legendWidth
		for i, e := range entries {
			y := box.Top + legendPadding + i*legendRow
			s := strokeStyle(e.Color, e.Style, 2)

			r.SetStrokeColor(s.StrokeColor)
			r.SetStrokeWidth(s.StrokeWidth)
			r.SetStrokeDashArray(s.StrokeDashArray)
			r.MoveTo(x, y)
			r.LineTo(x+legendSwatch, y)
			r.Stroke()

			r.SetFontColor(toColor(e.Color))
			r.Text(e.Text, x+legendSwatch+6, y+legendFontSize/2)
		}
	}
}

func strokeStyle(c color.RGBA, style chart.LineStyle, width float64) gochart.Style {
	s := gochart.Style{
		StrokeColor: toColor(c),
		StrokeWidth: width,
	}
	switch style {
	case chart.Dashed:
		s.StrokeDashArray = []float64{6, 3}
	case chart.Dotted:
		s.StrokeDashArray = []float64{1, 3}
	}
	return s
}

func toColor(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Ensure Renderer implements chart.Renderer
var _ chart.Renderer = (*Renderer)(nil)
