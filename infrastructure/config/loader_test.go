package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"covid-spread/domain/metrics"
	"covid-spread/domain/timeseries"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
data:
  confirmed: in/confirmed.csv
  deaths: in/deaths.csv
video:
  fps: 8
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Data.Confirmed != "in/confirmed.csv" {
		t.Errorf("Confirmed = %q", cfg.Data.Confirmed)
	}
	if cfg.Data.ReferenceDate != DefaultReferenceDate {
		t.Errorf("ReferenceDate = %q, want default", cfg.Data.ReferenceDate)
	}
	if cfg.Video.FPS != 8 {
		t.Errorf("FPS = %d, want 8", cfg.Video.FPS)
	}
	if cfg.Video.Output != DefaultVideoOutput {
		t.Errorf("Output = %q, want default", cfg.Video.Output)
	}
	if cfg.Render.MinDay != DefaultMinDay {
		t.Errorf("MinDay = %d, want %d", cfg.Render.MinDay, DefaultMinDay)
	}
	if !cfg.Video.KeepFrames {
		t.Error("KeepFrames should default to true")
	}
	if len(cfg.Regions) != 6 || cfg.Regions[0].Name != "Hubei" || cfg.Regions[5].Name != "USA" {
		t.Errorf("Regions = %+v, want the six default regions", cfg.Regions)
	}
}

func TestLoad_CustomRegions(t *testing.T) {
	path := writeConfig(t, `
render:
  anchor_region: spain
  normalization: per_capita
regions:
  - name: Spain
    country: Spain
    color: "#ff8000"
    population: 47000000
    restriction_date: "2020-03-14"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(cfg.Regions) != 1 {
		t.Fatalf("Regions = %+v, want only Spain", cfg.Regions)
	}

	specs, err := cfg.RegionSpecs()
	if err != nil {
		t.Fatalf("RegionSpecs() unexpected error: %v", err)
	}
	if specs[0].Restriction == nil || *specs[0].Restriction != 52 {
		t.Errorf("Restriction = %v, want day 52", specs[0].Restriction)
	}
	if specs[0].Color.R != 255 || specs[0].Color.G != 128 {
		t.Errorf("Color = %v", specs[0].Color)
	}

	n, err := cfg.Normalizer()
	if err != nil || n.Mode != metrics.PerCapita {
		t.Errorf("Normalizer() = %+v, %v", n, err)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{
			name:        "invalid yaml",
			content:     "data: [unclosed",
			errContains: "failed to parse config file",
		},
		{
			name:        "zero fps",
			content:     "video:\n  fps: 0\n",
			errContains: "video.fps must be positive",
		},
		{
			name:        "max day before min day",
			content:     "render:\n  min_day: 10\n  max_day: 5\n",
			errContains: "render.max_day",
		},
		{
			name:        "unknown backend",
			content:     "render:\n  backend: matplotlib\n",
			errContains: "render.backend",
		},
		{
			name:        "unknown normalization",
			content:     "render:\n  normalization: per_million\n",
			errContains: "render.normalization",
		},
		{
			name:        "unknown encoder",
			content:     "video:\n  encoder: imageio\n",
			errContains: "video.encoder",
		},
		{
			name:        "bad reference date",
			content:     "data:\n  reference_date: 22/01/2020\n",
			errContains: "data.reference_date",
		},
		{
			name:        "duplicate region",
			content:     "regions:\n  - {name: Hubei, country: China, color: grey}\n  - {name: hubei, country: China, color: red}\n",
			errContains: "key already exists",
		},
		{
			name:        "bad color",
			content:     "regions:\n  - {name: Hubei, country: China, color: ultraviolet}\n",
			errContains: "invalid color",
		},
		{
			name:        "missing country",
			content:     "regions:\n  - {name: Hubei, color: grey}\n",
			errContains: "country is required",
		},
		{
			name:        "per capita without population",
			content:     "render:\n  normalization: per_capita\nregions:\n  - {name: Hubei, country: China, color: grey}\n",
			errContains: "population must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("Load() expected error containing %q", tt.errContains)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Load() error = %v, want error containing %q", err, tt.errContains)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Load() error = %v", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Defaults()
	cfg.Exports.Workbook = "out/summary.xlsx"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if loaded.Exports.Workbook != "out/summary.xlsx" {
		t.Errorf("Workbook = %q", loaded.Exports.Workbook)
	}
	if loaded.Regions[3].Province != NoProvince {
		t.Errorf("France province = %q, want %q", loaded.Regions[3].Province, NoProvince)
	}
}

func TestDefaultRegions_Selectors(t *testing.T) {
	specs, err := Defaults().RegionSpecs()
	if err != nil {
		t.Fatalf("RegionSpecs() unexpected error: %v", err)
	}

	france := specs[3].Selector
	if france.Matches(timeseries.Row{Country: "France", Province: "Reunion"}) {
		t.Error("France should not match overseas rows")
	}
	if !france.Matches(timeseries.Row{Country: "France"}) {
		t.Error("France should match the country-level row")
	}

	hubei := specs[0]
	if !hubei.Selector.Matches(timeseries.Row{Country: "China", Province: "Hubei"}) {
		t.Error("Hubei should match China/Hubei")
	}
	if hubei.Restriction == nil || *hubei.Restriction != 8 {
		t.Errorf("Hubei restriction = %v, want day 8", hubei.Restriction)
	}
	if specs[5].Restriction != nil {
		t.Error("USA has no restriction date")
	}
}

func TestRegionConfig_SpecAnyProvince(t *testing.T) {
	r := RegionConfig{Name: "Canada", Country: "Canada", Province: AnyProvince, Color: "purple"}
	spec, err := r.Spec(timeseries.DefaultReferenceDate)
	if err != nil {
		t.Fatalf("Spec() unexpected error: %v", err)
	}
	if !spec.Selector.Matches(timeseries.Row{Country: "Canada", Province: "Quebec"}) {
		t.Error("* should match every province")
	}
	if !spec.Selector.Matches(timeseries.Row{Country: "Canada"}) {
		t.Error("* should match the country-level row")
	}
}

func TestAnchor_IsCaseInsensitive(t *testing.T) {
	cfg := Defaults()
	cfg.Render.AnchorRegion = "hubei"
	r, err := cfg.Anchor()
	if err != nil {
		t.Fatalf("Anchor() unexpected error: %v", err)
	}
	if r.Name != "Hubei" {
		t.Errorf("Anchor() = %q, want Hubei", r.Name)
	}

	cfg.Render.AnchorRegion = "Wuhan"
	if _, err := cfg.Anchor(); !errors.Is(err, ErrRegionNotFound) {
		t.Errorf("Anchor() error = %v, want ErrRegionNotFound", err)
	}
}

func TestLoad_EmptyRegionListUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "regions: []\n"))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(cfg.Regions) != 6 || cfg.Regions[0].Name != "Hubei" || cfg.Regions[0].Color != "grey" {
		t.Errorf("Regions = %+v, want the six default regions", cfg.Regions)
	}
}

func TestLoad_UnknownAnchorIsLeftToRender(t *testing.T) {
	cfg, err := Load(writeConfig(t, "render:\n  anchor_region: Spain\n"))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Render.AnchorRegion != "Spain" {
		t.Errorf("AnchorRegion = %q, want Spain", cfg.Render.AnchorRegion)
	}
	if _, err := cfg.Anchor(); !errors.Is(err, ErrRegionNotFound) {
		t.Errorf("Anchor() error = %v, want ErrRegionNotFound", err)
	}
}
