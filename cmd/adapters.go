package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"covid-spread/application/dataset"
	appdist "covid-spread/application/distribution"
	"covid-spread/application/pipeline"
	"covid-spread/domain/chart"
	"covid-spread/domain/distribution"
	"covid-spread/domain/history"
	"covid-spread/domain/video"
	"covid-spread/infrastructure/config"
	"covid-spread/infrastructure/csvsource"
	"covid-spread/infrastructure/drive"
	"covid-spread/infrastructure/export"
	"covid-spread/infrastructure/ffmpeg"
	"covid-spread/infrastructure/filesystem"
	"covid-spread/infrastructure/gochart"
	infrahistory "covid-spread/infrastructure/history"
	"covid-spread/infrastructure/opencv"
	"covid-spread/infrastructure/plot"
)

// FileStore checks, prepares and removes local files
type FileStore interface {
	video.FileChecker
	pipeline.FrameStore
}

// Adapters are the infrastructure implementations used by a render run.
// Exporters, History and Publisher may be empty.
type Adapters struct {
	Reader    dataset.TableReader
	Files     FileStore
	Renderer  chart.Renderer
	Encoder   video.Encoder
	Exporters []pipeline.Exporter
	History   history.Store
	Publisher pipeline.Publisher
}

// newAdapters creates the production adapters for cfg. The returned func
// releases them.
func newAdapters(ctx context.Context, cfg *config.Config, skipVideo bool, output io.Writer) (*Adapters, func(), error) {
	renderer, err := newRenderer(cfg.Render.Backend)
	if err != nil {
		return nil, nil, err
	}

	a := &Adapters{
		Reader:    csvsource.NewReader(),
		Files:     filesystem.NewChecker(),
		Renderer:  renderer,
		Exporters: newExporters(cfg.Exports.Workbook, cfg.Exports.Textfile),
	}
	closers := []func(){}
	release := func() {
		for _, c := range closers {
			c()
		}
	}

	if !skipVideo {
		if a.Encoder, err = newEncoder(cfg); err != nil {
			return nil, nil, err
		}
	}

	if cfg.Exports.HistoryDB != "" {
		store, err := infrahistory.Open(cfg.Exports.HistoryDB)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = store.Close() })
		a.History = store
	}

	if cfg.Google.FolderID != "" && !skipVideo {
		client, err := newDriveClient(ctx, cfg, output)
		if err != nil {
			release()
			return nil, nil, fmt.Errorf("failed to create Google Drive client: %w", err)
		}
		a.Publisher = appdist.NewUploadService(client, cfg.Google.FolderID, output)
	}

	return a, release, nil
}

func newRenderer(backend string) (chart.Renderer, error) {
	switch backend {
	case "gonum", "":
		return plot.NewRenderer(), nil
	case "gochart":
		return gochart.NewRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q: expected gonum or gochart", backend)
	}
}

func newEncoder(cfg *config.Config) (video.Encoder, error) {
	switch cfg.Video.Encoder {
	case "ffmpeg", "":
		return ffmpeg.NewEncoder(ffmpeg.WithFFmpegPath(cfg.Video.FFmpegPath)), nil
	case "opencv":
		if !opencv.Available() {
			return nil, opencv.ErrUnavailable
		}
		return opencv.NewEncoder(), nil
	default:
		return nil, fmt.Errorf("unknown encoder %q: expected ffmpeg or opencv", cfg.Video.Encoder)
	}
}

func newExporters(workbook, textfile string) []pipeline.Exporter {
	var exporters []pipeline.Exporter
	if workbook != "" {
		exporters = append(exporters, export.NewWorkbookExporter(workbook))
	}
	if textfile != "" {
		exporters = append(exporters, export.NewTextfileExporter(textfile))
	}
	return exporters
}

func newDriveClient(ctx context.Context, cfg *config.Config, output io.Writer) (*drive.Client, error) {
	return drive.NewClientFromCredentials(ctx, drive.OAuthConfig{
		CredentialsFile: cfg.Google.CredentialsFile,
		TokenFile:       cfg.Google.TokenFile,
		Output:          output,
	})
}

// verifyEncoder checks external tools the encoder depends on
func verifyEncoder(ctx context.Context, encoder video.Encoder) error {
	verifiable, ok := encoder.(interface{ VerifyInstalled(context.Context) error })
	if !ok {
		return nil
	}
	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
		return fmt.Errorf("ffmpeg verification failed: %w", err)
	}
	return nil
}

var (
	_ distribution.DriveClient = (*drive.Client)(nil)
	_ pipeline.Publisher       = (*appdist.UploadService)(nil)
	_ FileStore                = (*filesystem.Checker)(nil)
	_ history.Store            = (*infrahistory.SQLiteStore)(nil)
)
