package cmd

import (
	"context"
	"errors"
	"sync"
	"time"

	"covid-spread/domain/chart"
	"covid-spread/domain/distribution"
	"covid-spread/domain/history"
	"covid-spread/domain/metrics"
	"covid-spread/domain/timeseries"
	"covid-spread/domain/video"
	"covid-spread/infrastructure/config"
)

// mockReader serves the same nine days for every table
type mockReader struct {
	err error
}

func (m *mockReader) ReadTable(path, name string, ref time.Time) (*timeseries.Table, error) {
	if m.err != nil {
		return nil, m.err
	}
	values := map[timeseries.Day]float64{}
	for d := timeseries.Day(0); d <= 8; d++ {
		values[d] = float64(d+1) * 10
	}
	return timeseries.NewTable(name, []timeseries.Row{
		{Province: "Hubei", Country: "China", Values: values},
		{Country: "Italy", Values: values},
	}), nil
}

type mockFiles struct {
	missing  map[string]bool
	prepared []string
	removed  []string
}

func (m *mockFiles) Exists(path string) bool { return !m.missing[path] }

func (m *mockFiles) PrepareDir(dir string) error {
	m.prepared = append(m.prepared, dir)
	return nil
}

func (m *mockFiles) RemoveFiles(paths []string) error {
	m.removed = append(m.removed, paths...)
	return nil
}

type mockRenderer struct {
	mu    sync.Mutex
	count int
}

func (m *mockRenderer) Render(ctx context.Context, frame chart.Frame, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	return nil
}

type mockEncoder struct {
	req *video.EncodeRequest
	err error
}

func (m *mockEncoder) Encode(ctx context.Context, req *video.EncodeRequest) error {
	m.req = req
	return m.err
}

type mockExporter struct {
	calls int
	err   error
}

func (m *mockExporter) Name() string { return "mock" }
func (m *mockExporter) Path() string { return "mock.out" }
func (m *mockExporter) Export(ctx context.Context, report metrics.Report) error {
	m.calls++
	return m.err
}

type mockHistory struct {
	runs []history.Run
}

func (m *mockHistory) Record(ctx context.Context, run history.Run) (string, error) {
	run.ID = "run-" + string(rune('a'+len(m.runs)))
	m.runs = append(m.runs, run)
	return run.ID, nil
}

func (m *mockHistory) List(ctx context.Context, limit int) ([]history.Run, error) {
	if limit > 0 && limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockHistory) Get(ctx context.Context, id string) (history.Run, error) {
	for _, r := range m.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return history.Run{}, errors.New("run not found")
}

type mockDriveClient struct {
	existing *distribution.FileInfo
	uploaded *distribution.UploadRequest
	deleted  []string
}

func (m *mockDriveClient) FindFileByName(ctx context.Context, folderID, name string) (*distribution.FileInfo, error) {
	return m.existing, nil
}

func (m *mockDriveClient) GetStorageQuota(ctx context.Context) (*distribution.StorageInfo, error) {
	return &distribution.StorageInfo{TotalBytes: 1 << 30, AvailableBytes: 1 << 30}, nil
}

func (m *mockDriveClient) UploadAndShare(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	m.uploaded = &req
	return &distribution.UploadResult{
		FileID:       "file123",
		FileName:     req.FileName,
		ShareableURL: distribution.ShareableURL("file123"),
		Size:         2048,
	}, nil
}

func (m *mockDriveClient) DeletePermanently(ctx context.Context, fileID string) error {
	m.deleted = append(m.deleted, fileID)
	return nil
}

// mockPrompter answers prompts from queues, then with the prompt's default
type mockPrompter struct {
	inputs   []string
	confirms []bool
	messages []string
}

func (m *mockPrompter) Input(message, defaultValue string) (string, error) {
	m.messages = append(m.messages, message)
	if len(m.inputs) == 0 {
		return defaultValue, nil
	}
	v := m.inputs[0]
	m.inputs = m.inputs[1:]
	return v, nil
}

func (m *mockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	m.messages = append(m.messages, message)
	if len(m.confirms) == 0 {
		return defaultValue, nil
	}
	v := m.confirms[0]
	m.confirms = m.confirms[1:]
	return v, nil
}

// testConfig returns a valid config plotting Hubei and Italy
func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Regions = []config.RegionConfig{
		{Name: "Hubei", Country: "China", Province: "Hubei", Color: "grey", Population: 59_170_000},
		{Name: "Italy", Country: "Italy", Color: "seagreen", Population: 60_317_000},
	}
	return cfg
}
