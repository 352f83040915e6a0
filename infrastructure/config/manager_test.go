package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) (*ConfigManager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Defaults()
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}
	return NewConfigManager(cfg, path), path
}

func TestConfigManager_AddRegion(t *testing.T) {
	mgr, path := newTestManager(t)

	err := mgr.AddRegion(RegionConfig{Name: " Spain ", Country: "Spain", Color: "orange", Population: 47_000_000})
	if err != nil {
		t.Fatalf("AddRegion() unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	last := loaded.Regions[len(loaded.Regions)-1]
	if last.Name != "Spain" || last.Color != "orange" {
		t.Errorf("saved region = %+v", last)
	}
}

func TestConfigManager_AddRegionErrors(t *testing.T) {
	mgr, _ := newTestManager(t)

	tests := []struct {
		name   string
		region RegionConfig
		target error
	}{
		{"duplicate", RegionConfig{Name: "italy", Country: "Italy", Color: "red"}, ErrDuplicateKey},
		{"missing name", RegionConfig{Country: "Spain", Color: "red"}, nil},
		{"missing country", RegionConfig{Name: "Spain", Color: "red"}, nil},
		{"bad color", RegionConfig{Name: "Spain", Country: "Spain", Color: "nope"}, nil},
		{"bad date", RegionConfig{Name: "Spain", Country: "Spain", Color: "red", RestrictionDate: "March"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mgr.AddRegion(tt.region)
			if err == nil {
				t.Fatal("AddRegion() expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("AddRegion() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestConfigManager_RemoveRegion(t *testing.T) {
	mgr, _ := newTestManager(t)

	if err := mgr.RemoveRegion("usa"); err != nil {
		t.Fatalf("RemoveRegion() unexpected error: %v", err)
	}
	if _, _, err := mgr.GetRegion("USA"); !errors.Is(err, ErrRegionNotFound) {
		t.Errorf("GetRegion() after removal error = %v", err)
	}
	if err := mgr.RemoveRegion("USA"); !errors.Is(err, ErrRegionNotFound) {
		t.Errorf("second RemoveRegion() error = %v, want ErrRegionNotFound", err)
	}
	if err := mgr.RemoveRegion("Hubei"); !errors.Is(err, ErrAnchorRegion) {
		t.Errorf("RemoveRegion(anchor) error = %v, want ErrAnchorRegion", err)
	}
}

func TestConfigManager_UpdateRegion(t *testing.T) {
	mgr, path := newTestManager(t)

	if err := mgr.UpdateRegion("germany", RegionConfig{Color: "#112233", Population: 84_000_000}); err != nil {
		t.Fatalf("UpdateRegion() unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	germany := loaded.Regions[2]
	if germany.Color != "#112233" || germany.Population != 84_000_000 || germany.Country != "Germany" {
		t.Errorf("updated region = %+v", germany)
	}

	if err := mgr.UpdateRegion("germany", RegionConfig{Color: "nope"}); err == nil {
		t.Error("UpdateRegion() should reject an invalid color")
	}
}

func TestConfigManager_UpdateRegionProvince(t *testing.T) {
	tests := []struct {
		name     string
		province string
		want     string
	}{
		{"empty keeps the province", "", NoProvince},
		{"explicit province", "Corsica", "Corsica"},
		{"any province clears it", AnyProvince, ""},
		{"any province with spaces", " * ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, path := newTestManager(t)

			// France starts as country-level only
			update := RegionConfig{Province: tt.province}
			if tt.province == "" {
				update.Color = "teal"
			}
			if err := mgr.UpdateRegion("France", update); err != nil {
				t.Fatalf("UpdateRegion() unexpected error: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if got := loaded.Regions[3].Province; got != tt.want {
				t.Errorf("France province = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigManager_AddRegionAnyProvince(t *testing.T) {
	mgr, _ := newTestManager(t)

	if err := mgr.AddRegion(RegionConfig{Name: "Canada", Country: "Canada", Province: AnyProvince, Color: "purple"}); err != nil {
		t.Fatalf("AddRegion() unexpected error: %v", err)
	}
	r, _, err := mgr.GetRegion("canada")
	if err != nil {
		t.Fatal(err)
	}
	if r.Province != "" {
		t.Errorf("Province = %q, want empty", r.Province)
	}
}
