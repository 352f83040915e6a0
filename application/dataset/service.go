package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"covid-spread/domain/region"
	"covid-spread/domain/timeseries"
	"covid-spread/domain/video"

	"go.uber.org/zap"
)

// Table names used in errors and logs
const (
	ConfirmedTable = "confirmed"
	DeathsTable    = "deaths"
	RecoveredTable = "recovered"
)

// TableReader reads one time-series table, mapping date columns to day offsets from ref
type TableReader interface {
	ReadTable(path, name string, ref time.Time) (*timeseries.Table, error)
}

// Sources locates the input tables
type Sources struct {
	Confirmed string
	Deaths    string
	Recovered string // optional
	Reference time.Time
}

// Dataset holds the loaded tables
type Dataset struct {
	Reference time.Time
	Confirmed *timeseries.Table
	Deaths    *timeseries.Table
	Recovered *timeseries.Table // nil when not configured
}

// Service loads datasets
type Service struct {
	reader      TableReader
	fileChecker video.FileChecker
	logger      *zap.Logger
}

// NewService creates a new dataset service
func NewService(reader TableReader, fileChecker video.FileChecker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reader:      reader,
		fileChecker: fileChecker,
		logger:      logger,
	}
}

// Load verifies that every configured file exists, then reads the tables
func (s *Service) Load(ctx context.Context, src Sources) (*Dataset, error) {
	if src.Confirmed == "" || src.Deaths == "" {
		return nil, fmt.Errorf("confirmed and deaths tables are required")
	}

	for _, path := range []string{src.Confirmed, src.Deaths, src.Recovered} {
		if path != "" && !s.fileChecker.Exists(path) {
			return nil, fmt.Errorf("data file does not exist: %s", path)
		}
	}

	ds := &Dataset{Reference: src.Reference}
	tables := []struct {
		path string
		name string
		dst  **timeseries.Table
	}{
		{src.Confirmed, ConfirmedTable, &ds.Confirmed},
		{src.Deaths, DeathsTable, &ds.Deaths},
		{src.Recovered, RecoveredTable, &ds.Recovered},
	}

	for _, t := range tables {
		if t.path == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := s.reader.ReadTable(t.path, t.name, src.Reference)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("table loaded",
			zap.String("table", t.name),
			zap.String("path", t.path),
			zap.Int("rows", len(table.Rows)),
			zap.Int("days", len(table.Days)))
		*t.dst = table
	}

	return ds, nil
}

// Regions selects the series of every region, keeping order.
// Missing recovered rows give an empty recovered series.
func (d *Dataset) Regions(specs []region.Spec) ([]region.Region, error) {
	regions := make([]region.Region, 0, len(specs))
	for _, spec := range specs {
		r := region.Region{Spec: spec}

		var err error
		if r.Confirmed, err = d.Confirmed.Select(spec.Selector); err != nil {
			return nil, fmt.Errorf("region %s: %w", spec.Name, err)
		}
		if r.Deaths, err = d.Deaths.Select(spec.Selector); err != nil {
			return nil, fmt.Errorf("region %s: %w", spec.Name, err)
		}
		if d.Recovered != nil {
			r.Recovered, err = d.Recovered.Select(spec.Selector)
			if err != nil && !errors.Is(err, timeseries.ErrNoRows) {
				return nil, fmt.Errorf("region %s: %w", spec.Name, err)
			}
		}

		regions = append(regions, r)
	}
	return regions, nil
}
