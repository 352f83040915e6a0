package plot

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"covid-spread/domain/chart"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// pngDPI is the resolution gonum uses when saving PNG files
const pngDPI = 96

// Renderer implements chart.Renderer with gonum/plot
type Renderer struct{}

// NewRenderer creates a new gonum renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws frame and saves it as an image at path
func (r *Renderer) Render(ctx context.Context, frame chart.Frame, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := r.Plot(frame)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create frame directory: %w", err)
	}

	if err := p.Save(pixels(frame.Width), pixels(frame.Height), path); err != nil {
		return fmt.Errorf("failed to save frame %d: %w", frame.Index, err)
	}
	return nil
}

// Plot builds the gonum plot for frame without saving it
func (r *Renderer) Plot(frame chart.Frame) (*gonumplot.Plot, error) {
	p := gonumplot.New()
	p.X.Label.Text = frame.XLabel
	p.Y.Label.Text = frame.YLabel
	p.Add(plotter.NewGrid())

	for _, l := range frame.Lines {
		if len(l.X) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(l.X))
		for i := range l.X {
			pts[i].X = l.X[i]
			pts[i].Y = l.Y[i]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", l.Label, err)
		}
		line.LineStyle = lineStyle(l.Color, l.Style, l.Width)
		p.Add(line)
	}

	for _, m := range frame.Markers {
		top := frame.YMin + m.HeightFraction*(frame.YMax-frame.YMin)
		marker, err := plotter.NewLine(plotter.XYs{{X: m.X, Y: frame.YMin}, {X: m.X, Y: top}})
		if err != nil {
			return nil, fmt.Errorf("marker at %.1f: %w", m.X, err)
		}
		marker.LineStyle = lineStyle(m.Color, chart.Solid, m.Width)
		p.Add(marker)
	}

	for _, lb := range frame.Labels {
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: lb.X, Y: lb.Y}},
			Labels: []string{lb.Text},
		})
		if err != nil {
			return nil, fmt.Errorf("label %q: %w", lb.Text, err)
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = lb.Color
			labels.TextStyle[i].Rotation = lb.Rotation
			labels.TextStyle[i].Font.Size = vg.Points(lb.Size)
		}
		p.Add(labels)
	}

	for _, e := range frame.Legend {
		p.Legend.Add(e.Text, &plotter.Line{LineStyle: lineStyle(e.Color, e.Style, 2)})
	}
	p.Legend.Top = true

	// Add widens the axes to the data, so the frame range is applied last
	p.X.Min, p.X.Max = frame.XMin, frame.XMax
	p.Y.Min, p.Y.Max = frame.YMin, frame.YMax

	return p, nil
}

func lineStyle(c color.RGBA, style chart.LineStyle, width float64) draw.LineStyle {
	ls := draw.LineStyle{
		Color: c,
		Width: vg.Points(width),
	}
	switch style {
	case chart.Dashed:
		ls.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	case chart.Dotted:
		ls.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
	}
	return ls
}

// pixels converts a pixel count to the length that saves at that size
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / pngDPI
}

// Ensure Renderer implements chart.Renderer
var _ chart.Renderer = (*Renderer)(nil)
