package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"covid-spread/domain/chart"
	"covid-spread/domain/metrics"
	"covid-spread/domain/region"
	"covid-spread/domain/timeseries"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultConfigPath    = "config/config.yaml"
	DefaultConfirmedPath = "data/time_series_covid19_confirmed_global.csv"
	DefaultDeathsPath    = "data/time_series_covid19_deaths_global.csv"
	DefaultReferenceDate = "2020-01-22"
	DefaultFramesDir     = "frames"
	DefaultMinDay        = 5
	DefaultAnchorRegion  = "Hubei"
	DefaultBackend       = "gonum"
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultVideoOutput   = "covid19_spread.mp4"
	DefaultFPS           = 4
	DefaultEncoder       = "ffmpeg"
	DefaultFFmpegPath    = "ffmpeg"
	DefaultLogLevel      = "info"
)

// Province values with a special meaning
const (
	// NoProvince selects only country-level rows
	NoProvince = "-"
	// AnyProvince selects every row of the country. It is stored as an empty province.
	AnyProvince = "*"
)

// Config represents the complete application configuration
type Config struct {
	Data    DataConfig     `yaml:"data"`
	Render  RenderConfig   `yaml:"render"`
	Video   VideoConfig    `yaml:"video"`
	Regions []RegionConfig `yaml:"regions"`
	Exports ExportsConfig  `yaml:"exports"`
	Google  GoogleConfig   `yaml:"google"`
	Logging LoggingConfig  `yaml:"logging"`
}

// DataConfig locates the input CSV tables
type DataConfig struct {
	Confirmed     string `yaml:"confirmed"`
	Deaths        string `yaml:"deaths"`
	Recovered     string `yaml:"recovered"` // optional
	ReferenceDate string `yaml:"reference_date"`
	SourceURL     string `yaml:"source_url"`
}

// RenderConfig controls frame generation
type RenderConfig struct {
	FramesDir     string `yaml:"frames_dir"`
	MinDay        int    `yaml:"min_day"`
	MaxDay        int    `yaml:"max_day"` // 0 renders every available day
	AnchorRegion  string `yaml:"anchor_region"`
	Normalization string `yaml:"normalization"`
	Backend       string `yaml:"backend"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Workers       int    `yaml:"workers"` // 0 uses one worker per CPU
}

// VideoConfig controls video assembly
type VideoConfig struct {
	Output     string `yaml:"output"`
	FPS        int    `yaml:"fps"`
	Encoder    string `yaml:"encoder"`
	FFmpegPath string `yaml:"ffmpeg_path"`
	KeepFrames bool   `yaml:"keep_frames"`
}

// RegionConfig is one plotted region.
// Province "" matches every row of the country, "-" only the country-level row.
type RegionConfig struct {
	Name            string  `yaml:"name"`
	Country         string  `yaml:"country"`
	Province        string  `yaml:"province,omitempty"`
	Color           string  `yaml:"color"`
	Population      float64 `yaml:"population"`
	RestrictionDate string  `yaml:"restriction_date,omitempty"`
}

// ExportsConfig enables optional outputs; empty paths disable them
type ExportsConfig struct {
	Workbook  string `yaml:"workbook"`
	Textfile  string `yaml:"textfile"`
	HistoryDB string `yaml:"history_db"`
}

// GoogleConfig contains Google API settings for publishing
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	FolderID        string `yaml:"folder_id"` // empty disables publishing
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load reads and parses the configuration from the specified YAML file.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(cfg.Regions) == 0 {
		cfg.Regions = DefaultRegions()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Defaults returns a Config for the classic six-region peak-share animation
func Defaults() *Config {
	return &Config{
		Data: DataConfig{
			Confirmed:     DefaultConfirmedPath,
			Deaths:        DefaultDeathsPath,
			ReferenceDate: DefaultReferenceDate,
			SourceURL:     chart.DefaultSourceURL,
		},
		Render: RenderConfig{
			FramesDir:     DefaultFramesDir,
			MinDay:        DefaultMinDay,
			AnchorRegion:  DefaultAnchorRegion,
			Normalization: string(metrics.PeakShare),
			Backend:       DefaultBackend,
			Width:         DefaultWidth,
			Height:        DefaultHeight,
		},
		Video: VideoConfig{
			Output:     DefaultVideoOutput,
			FPS:        DefaultFPS,
			Encoder:    DefaultEncoder,
			FFmpegPath: DefaultFFmpegPath,
			KeepFrames: true,
		},
		Regions: DefaultRegions(),
		Google: GoogleConfig{
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
		},
		Logging: LoggingConfig{Level: DefaultLogLevel},
	}
}

// DefaultRegions returns the six default regions, in drawing order
func DefaultRegions() []RegionConfig {
	return []RegionConfig{
		{Name: "Hubei", Country: "China", Province: "Hubei", Color: "grey", Population: 59_170_000, RestrictionDate: "2020-01-30"},
		{Name: "Italy", Country: "Italy", Color: "seagreen", Population: 60_317_000, RestrictionDate: "2020-03-12"},
		{Name: "Germany", Country: "Germany", Color: "black", Population: 83_166_711, RestrictionDate: "2020-03-22"},
		{Name: "France", Country: "France", Province: NoProvince, Color: "mediumblue", Population: 67_064_000, RestrictionDate: "2020-03-17"},
		{Name: "UK", Country: "United Kingdom", Province: NoProvince, Color: "red", Population: 66_796_807, RestrictionDate: "2020-03-24"},
		{Name: "USA", Country: "US", Color: "sandybrown", Population: 329_484_123},
	}
}

// Validate checks required fields and structural constraints.
// The anchor region is resolved when rendering, see Anchor.
func (c *Config) Validate() error {
	if c.Data.Confirmed == "" {
		return fmt.Errorf("data.confirmed is required")
	}
	if c.Data.Deaths == "" {
		return fmt.Errorf("data.deaths is required")
	}
	if _, err := c.ReferenceDate(); err != nil {
		return fmt.Errorf("data.reference_date: %w", err)
	}

	if c.Render.MinDay < 0 {
		return fmt.Errorf("render.min_day must not be negative")
	}
	if c.Render.MaxDay != 0 && c.Render.MaxDay < c.Render.MinDay {
		return fmt.Errorf("render.max_day (%d) must be 0 or at least render.min_day (%d)", c.Render.MaxDay, c.Render.MinDay)
	}
	mode, err := metrics.ParseMode(c.Render.Normalization)
	if err != nil {
		return fmt.Errorf("render.normalization: %w", err)
	}
	switch c.Render.Backend {
	case "gonum", "gochart":
	default:
		return fmt.Errorf("render.backend must be gonum or gochart, got %q", c.Render.Backend)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render.width and render.height must be positive")
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("render.workers must not be negative")
	}

	if c.Video.FPS <= 0 {
		return fmt.Errorf("video.fps must be positive")
	}
	switch c.Video.Encoder {
	case "ffmpeg", "opencv":
	default:
		return fmt.Errorf("video.encoder must be ffmpeg or opencv, got %q", c.Video.Encoder)
	}

	seen := make(map[string]bool)
	for i, r := range c.Regions {
		if r.Name == "" {
			return fmt.Errorf("regions[%d].name is required", i)
		}
		key := strings.ToLower(r.Name)
		if seen[key] {
			return fmt.Errorf("%w: region %q", ErrDuplicateKey, r.Name)
		}
		seen[key] = true
		if r.Country == "" {
			return fmt.Errorf("region %q: country is required", r.Name)
		}
		if _, err := chart.ParseColor(r.Color); err != nil {
			return fmt.Errorf("region %q: %w", r.Name, err)
		}
		if r.RestrictionDate != "" {
			if _, err := timeseries.ParseReferenceDate(r.RestrictionDate); err != nil {
				return fmt.Errorf("region %q restriction_date: %w", r.Name, err)
			}
		}
		if mode == metrics.PerCapita && r.Population <= 0 {
			return fmt.Errorf("region %q: population must be positive for per_capita normalization", r.Name)
		}
		if r.Population < 0 {
			return fmt.Errorf("region %q: population must not be negative", r.Name)
		}
	}

	return nil
}

// Anchor returns the region entry named by render.anchor_region
func (c *Config) Anchor() (RegionConfig, error) {
	for _, r := range c.Regions {
		if strings.EqualFold(r.Name, c.Render.AnchorRegion) {
			return r, nil
		}
	}
	return RegionConfig{}, fmt.Errorf("%w: anchor region %q", ErrRegionNotFound, c.Render.AnchorRegion)
}

// ReferenceDate returns the parsed day-zero date
func (c *Config) ReferenceDate() (time.Time, error) {
	return timeseries.ParseReferenceDate(c.Data.ReferenceDate)
}

// Normalizer returns the configured normalization
func (c *Config) Normalizer() (metrics.Normalizer, error) {
	mode, err := metrics.ParseMode(c.Render.Normalization)
	if err != nil {
		return metrics.Normalizer{}, err
	}
	return metrics.NewNormalizer(mode), nil
}

// RegionSpecs converts the region entries into domain specs
func (c *Config) RegionSpecs() ([]region.Spec, error) {
	ref, err := c.ReferenceDate()
	if err != nil {
		return nil, err
	}

	specs := make([]region.Spec, 0, len(c.Regions))
	for _, r := range c.Regions {
		spec, err := r.Spec(ref)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Spec converts one region entry into a domain spec
func (r RegionConfig) Spec(ref time.Time) (region.Spec, error) {
	col, err := chart.ParseColor(r.Color)
	if err != nil {
		return region.Spec{}, fmt.Errorf("region %q: %w", r.Name, err)
	}

	spec := region.Spec{
		Name:       r.Name,
		Selector:   timeseries.Selector{Country: r.Country, Province: provinceRule(r.Province)},
		Color:      col,
		Population: r.Population,
	}

	if r.RestrictionDate != "" {
		date, err := timeseries.ParseReferenceDate(r.RestrictionDate)
		if err != nil {
			return region.Spec{}, fmt.Errorf("region %q: %w", r.Name, err)
		}
		day := timeseries.DayOffset(ref, date)
		spec.Restriction = &day
	}

	return spec, nil
}

func provinceRule(province string) timeseries.ProvinceRule {
	switch strings.TrimSpace(province) {
	case "", AnyProvince:
		return timeseries.AnyProvince()
	case NoProvince:
		return timeseries.NoProvince()
	default:
		return timeseries.Exactly(strings.TrimSpace(province))
	}
}
