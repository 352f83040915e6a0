package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"covid-spread/application/pipeline"
	"covid-spread/domain/timeseries"
	"covid-spread/infrastructure/config"

	"go.uber.org/zap"
)

func testAdapters() (*Adapters, *mockFiles, *mockRenderer, *mockEncoder, *mockExporter, *mockHistory) {
	files := &mockFiles{}
	renderer := &mockRenderer{}
	encoder := &mockEncoder{}
	exporter := &mockExporter{}
	hist := &mockHistory{}
	return &Adapters{
		Reader:    &mockReader{},
		Files:     files,
		Renderer:  renderer,
		Encoder:   encoder,
		Exporters: []pipeline.Exporter{exporter},
		History:   hist,
	}, files, renderer, encoder, exporter, hist
}

func TestRunRender(t *testing.T) {
	adapters, files, renderer, encoder, exporter, hist := testAdapters()
	out := &bytes.Buffer{}

	result, err := RunRenderWithDependencies(context.Background(), testConfig(), false, adapters, zap.NewNop(), out)
	if err != nil {
		t.Fatalf("RunRenderWithDependencies() unexpected error: %v\n%s", err, out.String())
	}

	// min_day 5 through the anchor's last day 8
	if len(result.Frames) != 4 || renderer.count != 4 {
		t.Errorf("frames = %d, rendered = %d, want 4", len(result.Frames), renderer.count)
	}
	if result.Days[0] != timeseries.Day(5) {
		t.Errorf("first day = %d, want 5", result.Days[0])
	}
	if encoder.req == nil {
		t.Fatal("encoder not called")
	}
	if encoder.req.OutputPath != "covid19_spread.mp4" || encoder.req.FPS != 4 {
		t.Errorf("encode request = %+v", encoder.req)
	}
	if len(files.prepared) != 1 || files.prepared[0] != "frames" {
		t.Errorf("prepared = %v, want [frames]", files.prepared)
	}
	if len(files.removed) != 0 {
		t.Errorf("keep_frames defaults to true, removed %v", files.removed)
	}
	if exporter.calls != 1 {
		t.Errorf("exporter calls = %d, want 1", exporter.calls)
	}
	if len(hist.runs) != 1 || hist.runs[0].Backend != "gonum" || hist.runs[0].Normalization != "peak_share" {
		t.Errorf("history = %+v", hist.runs)
	}
	if !strings.Contains(out.String(), "Done! Completed in") {
		t.Errorf("output missing completion line:\n%s", out.String())
	}
}

func TestRunRender_SkipVideo(t *testing.T) {
	adapters, _, _, encoder, _, _ := testAdapters()
	adapters.Encoder = nil

	result, err := RunRenderWithDependencies(context.Background(), testConfig(), true, adapters, zap.NewNop(), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("RunRenderWithDependencies() unexpected error: %v", err)
	}
	if encoder.req != nil {
		t.Error("encoder should not be called")
	}
	if result.VideoPath != "" {
		t.Errorf("VideoPath = %q, want empty", result.VideoPath)
	}
}

func TestRunRender_MissingData(t *testing.T) {
	adapters, files, _, _, _, _ := testAdapters()
	files.missing = map[string]bool{"data/time_series_covid19_deaths_global.csv": true}
	out := &bytes.Buffer{}

	_, err := RunRenderWithDependencies(context.Background(), testConfig(), false, adapters, zap.NewNop(), out)
	if err == nil {
		t.Fatal("expected error for missing data file")
	}
	if !strings.Contains(err.Error(), "load failed") {
		t.Errorf("error = %v, want load failed", err)
	}
	if !strings.Contains(out.String(), "covid-spread render --skip-video") {
		t.Errorf("output missing recovery commands:\n%s", out.String())
	}
}

func TestRunRender_UnknownAnchorSuggestsConfigAdd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("render:\n  anchor_region: Spain\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	runCfg, err := RenderOptions{}.Apply(cfg)
	if err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}

	adapters, _, renderer, _, _, _ := testAdapters()
	_, err = RunRenderWithDependencies(context.Background(), runCfg, true, adapters, zap.NewNop(), &bytes.Buffer{})

	var vErr *pipeline.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if !strings.Contains(err.Error(), "covid-spread config add --name Spain") {
		t.Errorf("error = %q, want config add suggestion", err.Error())
	}
	if renderer.count != 0 {
		t.Errorf("rendered %d frames, want 0", renderer.count)
	}
}

func TestRunRender_EmptyRegionListFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("regions: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if len(cfg.Regions) != 6 {
		t.Fatalf("regions = %d, want the six defaults", len(cfg.Regions))
	}

	// mockReader only has Hubei and Italy rows, so Germany is the first to fail
	adapters, _, renderer, _, _, _ := testAdapters()
	_, err = RunRenderWithDependencies(context.Background(), cfg, true, adapters, zap.NewNop(), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "Germany") {
		t.Errorf("error = %v, want it to name Germany", err)
	}
	if renderer.count != 0 {
		t.Errorf("rendered %d frames, want 0", renderer.count)
	}
}

func TestRenderOptions_Apply(t *testing.T) {
	cfg := testConfig()

	got, err := RenderOptions{
		MaxDay:        7,
		Backend:       "gochart",
		Normalization: "per_capita",
		Workers:       3,
		KeepFrames:    true,
	}.Apply(cfg)
	if err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}

	if got.Render.MaxDay != 7 || got.Render.Backend != "gochart" || got.Render.Normalization != "per_capita" || got.Render.Workers != 3 {
		t.Errorf("overrides not applied: %+v", got.Render)
	}
	if cfg.Render.Backend != "gonum" {
		t.Errorf("original config modified: backend = %q", cfg.Render.Backend)
	}
}

func TestRenderOptions_ApplyInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts RenderOptions
		want string
	}{
		{"backend", RenderOptions{Backend: "svg"}, "render.backend"},
		{"normalization", RenderOptions{Normalization: "log"}, "render.normalization"},
		{"max day before min day", RenderOptions{MaxDay: 2}, "render.max_day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.Apply(testConfig())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Apply() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestNewRenderer(t *testing.T) {
	for _, backend := range []string{"gonum", "gochart", ""} {
		if _, err := newRenderer(backend); err != nil {
			t.Errorf("newRenderer(%q) unexpected error: %v", backend, err)
		}
	}
	if _, err := newRenderer("svg"); err == nil {
		t.Error("newRenderer(svg) expected error")
	}
}
