package chart

import (
	"fmt"
	"math"
	"time"

	"covid-spread/domain/metrics"
	"covid-spread/domain/region"
	"covid-spread/domain/timeseries"

	"github.com/dustin/go-humanize"
)

// DefaultSourceURL is the dataset attribution printed on every frame
const DefaultSourceURL = "https://data.humdata.org/dataset/novel-coronavirus-2019-ncov-cases"

// Layout constants, as fractions of the x range (max day) or y range (H)
const (
	labelColumns       = 3
	labelColumnWidth   = 0.33
	labelTop           = 1.08
	labelRowStep       = 0.05
	dateLabelX         = -0.05
	dateLabelY         = -0.10
	sourceCaptionX     = 1.03
	sourceCaptionY     = 0.40
	sourceURLX         = 1.06
	sourceURLY         = 1.05
	markerHeight       = 0.05
	markerSpread       = 0.1
	seriesLineWidth    = 2
	markerLineWidth    = 1
	annotationSize     = 10
	defaultFrameWidth  = 800
	defaultFrameHeight = 600
)

// Builder lays out frames
type Builder struct {
	Reference  time.Time
	Normalizer metrics.Normalizer
	SourceURL  string
	Width      int
	Height     int
}

// NewBuilder creates a Builder with default attribution and size
func NewBuilder(reference time.Time, normalizer metrics.Normalizer) *Builder {
	return &Builder{
		Reference:  reference,
		Normalizer: normalizer,
		SourceURL:  DefaultSourceURL,
		Width:      defaultFrameWidth,
		Height:     defaultFrameHeight,
	}
}

// Build lays out the frame showing every region up to maxDay
func (b *Builder) Build(index int, maxDay timeseries.Day, regions []region.Region) Frame {
	frame := Frame{
		Index:  index,
		MaxDay: maxDay,
		XMin:   0,
		XMax:   float64(maxDay),
		XLabel: "#Days after " + b.Reference.Format("02 Jan 2006"),
		YLabel: b.Normalizer.AxisLabel(),
		Width:  b.Width,
		Height: b.Height,
	}
	if frame.XMax <= frame.XMin {
		frame.XMax = frame.XMin + 1
	}

	type plotted struct {
		r    region.Region
		norm metrics.Normalized
	}

	var (
		items        []plotted
		lastDay      timeseries.Day
		hasRecovered bool
		yTop         float64
	)

	for _, r := range regions {
		window := r.Until(maxDay)
		norm := b.Normalizer.Apply(window.Confirmed, window.Deaths, window.Recovered, r.Population)
		items = append(items, plotted{r: window, norm: norm})

		if day, _, ok := window.Confirmed.Last(); ok && day > lastDay {
			lastDay = day
		}
		for _, vs := range [][]float64{norm.Confirmed, norm.Deaths, norm.Recovered} {
			for _, v := range vs {
				yTop = math.Max(yTop, v)
			}
		}
	}

	h := b.Normalizer.Scale
	if b.Normalizer.Mode == metrics.PerCapita {
		h = math.Max(yTop, 1)
	}

	for i, it := range items {
		xs := it.r.Confirmed.Floats()
		frame.Lines = append(frame.Lines, Line{
			Label: it.r.Name + " infected",
			Color: it.r.Color,
			Style: Solid,
			Width: seriesLineWidth,
			X:     xs,
			Y:     it.norm.Confirmed,
		})
		frame.Lines = append(frame.Lines, Line{
			Label: it.r.Name + " dead",
			Color: it.r.Color,
			Style: Dashed,
			Width: seriesLineWidth,
			X:     it.r.Deaths.Floats(),
			Y:     it.norm.Deaths,
		})
		if len(it.norm.Recovered) > 0 {
			hasRecovered = true
			frame.Lines = append(frame.Lines, Line{
				Label: it.r.Name + " recovered",
				Color: it.r.Color,
				Style: Dotted,
				Width: seriesLineWidth,
				X:     it.r.Recovered.Floats(),
				Y:     it.norm.Recovered,
			})
		}

		col := float64(i % labelColumns)
		row := float64(i / labelColumns)
		frame.Labels = append(frame.Labels, Label{
			Text:  fmt.Sprintf("%s, %s infected", it.r.Name, humanize.Comma(int64(it.norm.Peak))),
			X:     col * labelColumnWidth * float64(maxDay),
			Y:     h*labelTop - h*labelRowStep*row,
			Color: it.r.Color,
			Size:  annotationSize,
		})

		if it.r.Restriction != nil && *it.r.Restriction <= maxDay {
			x := float64(*it.r.Restriction)
			for _, dx := range []float64{-markerSpread, 0, markerSpread} {
				frame.Markers = append(frame.Markers, Marker{
					X:              x + dx,
					HeightFraction: markerHeight,
					Width:          markerLineWidth,
					Color:          it.r.Color,
				})
			}
		}
	}

	frame.Date = timeseries.DateOf(b.Reference, lastDay)
	frame.Labels = append(frame.Labels,
		Label{
			Text:  frame.Date.Format("02/01/2006"),
			X:     dateLabelX * float64(maxDay),
			Y:     dateLabelY * h,
			Color: Black,
			Size:  annotationSize,
		},
		Label{
			Text:     "Source:",
			X:        sourceCaptionX * float64(maxDay),
			Y:        sourceCaptionY * h,
			Color:    Black,
			Rotation: math.Pi / 2,
			Size:     annotationSize,
		},
		Label{
			Text:     b.SourceURL,
			X:        sourceURLX * float64(maxDay),
			Y:        sourceURLY * h,
			Color:    Black,
			Rotation: math.Pi / 2,
			Size:     annotationSize,
		},
	)

	frame.Legend = []LegendEntry{
		{Text: "infected", Color: Black, Style: Solid},
		{Text: "dead", Color: Black, Style: Dashed},
	}
	if hasRecovered {
		frame.Legend = append(frame.Legend, LegendEntry{Text: "recovered", Color: Black, Style: Dotted})
	}

	frame.YMin = dateLabelY * h * 1.2
	frame.YMax = h * (labelTop + 0.04)
	return frame
}
