package config

import (
	"errors"
	"fmt"
	"strings"

	"covid-spread/domain/chart"
	"covid-spread/domain/timeseries"
)

// Errors for config management
var (
	ErrRegionNotFound = errors.New("region not found")
	ErrDuplicateKey   = errors.New("key already exists")
	ErrAnchorRegion   = errors.New("cannot remove the anchor region")
)

// ConfigManager provides CRUD operations for region entries
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// AddRegion appends a region and saves the config
func (m *ConfigManager) AddRegion(r RegionConfig) error {
	r = trimRegion(r)
	if r.Province == AnyProvince {
		r.Province = ""
	}

	if r.Name == "" {
		return fmt.Errorf("region name is required")
	}
	if r.Country == "" {
		return fmt.Errorf("region country is required")
	}
	if _, err := chart.ParseColor(r.Color); err != nil {
		return err
	}
	if r.RestrictionDate != "" {
		if _, err := timeseries.ParseReferenceDate(r.RestrictionDate); err != nil {
			return fmt.Errorf("restriction date: %w", err)
		}
	}

	if _, _, err := m.GetRegion(r.Name); err == nil {
		return fmt.Errorf("%w: region %q", ErrDuplicateKey, r.Name)
	}

	m.config.Regions = append(m.config.Regions, r)
	return Save(m.config, m.configPath)
}

// ListRegions returns all regions in drawing order
func (m *ConfigManager) ListRegions() []RegionConfig {
	result := make([]RegionConfig, len(m.config.Regions))
	copy(result, m.config.Regions)
	return result
}

// GetRegion gets a region and its index by name (case-insensitive)
func (m *ConfigManager) GetRegion(name string) (RegionConfig, int, error) {
	name = strings.TrimSpace(name)
	for i, r := range m.config.Regions {
		if strings.EqualFold(r.Name, name) {
			return r, i, nil
		}
	}
	return RegionConfig{}, -1, fmt.Errorf("%w: %q", ErrRegionNotFound, name)
}

// RemoveRegion removes a region by name
func (m *ConfigManager) RemoveRegion(name string) error {
	r, idx, err := m.GetRegion(name)
	if err != nil {
		return err
	}
	if strings.EqualFold(r.Name, m.config.Render.AnchorRegion) {
		return fmt.Errorf("%w: %q", ErrAnchorRegion, r.Name)
	}

	m.config.Regions = append(m.config.Regions[:idx], m.config.Regions[idx+1:]...)
	return Save(m.config, m.configPath)
}

// UpdateRegion updates the non-empty fields of a region.
// A province of AnyProvince clears the province.
func (m *ConfigManager) UpdateRegion(name string, update RegionConfig) error {
	r, idx, err := m.GetRegion(name)
	if err != nil {
		return err
	}

	update = trimRegion(update)
	if update.Country != "" {
		r.Country = update.Country
	}
	switch update.Province {
	case "":
	case AnyProvince:
		r.Province = ""
	default:
		r.Province = update.Province
	}
	if update.Color != "" {
		if _, err := chart.ParseColor(update.Color); err != nil {
			return err
		}
		r.Color = update.Color
	}
	if update.Population > 0 {
		r.Population = update.Population
	}
	if update.RestrictionDate != "" {
		if _, err := timeseries.ParseReferenceDate(update.RestrictionDate); err != nil {
			return fmt.Errorf("restriction date: %w", err)
		}
		r.RestrictionDate = update.RestrictionDate
	}

	m.config.Regions[idx] = r
	return Save(m.config, m.configPath)
}

// SuggestAddRegionCommand returns the command to add a missing region
func SuggestAddRegionCommand(name string) string {
	return fmt.Sprintf(`covid-spread config add --name %s --country "Country/Region" --color red --population 1000000`, name)
}

func trimRegion(r RegionConfig) RegionConfig {
	r.Name = strings.TrimSpace(r.Name)
	r.Country = strings.TrimSpace(r.Country)
	r.Province = strings.TrimSpace(r.Province)
	r.Color = strings.TrimSpace(r.Color)
	r.RestrictionDate = strings.TrimSpace(r.RestrictionDate)
	return r
}
