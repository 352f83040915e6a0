//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"covid-spread/application/pipeline"
	"covid-spread/cmd"
	"covid-spread/domain/chart"
	"covid-spread/domain/timeseries"
	"covid-spread/domain/video"
	"covid-spread/infrastructure/config"
	"covid-spread/infrastructure/csvsource"
	"covid-spread/infrastructure/export"
	"covid-spread/infrastructure/filesystem"
	"covid-spread/infrastructure/gochart"
	infrahistory "covid-spread/infrastructure/history"
	"covid-spread/infrastructure/plot"

	"github.com/cucumber/godog"
	"go.uber.org/zap"
)

// recordingEncoder stands in for ffmpeg and records the request
type recordingEncoder struct {
	req *video.EncodeRequest
}

func (e *recordingEncoder) Encode(ctx context.Context, req *video.EncodeRequest) error {
	e.req = req
	return os.WriteFile(req.OutputPath, []byte("mp4"), 0644)
}

type renderContext struct {
	encoder  *recordingEncoder
	workbook string
}

var sharedRender = &renderContext{}

func InitializeRenderScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		sharedRender = &renderContext{encoder: &recordingEncoder{}}
		return c, nil
	})

	ctx.Step(`^CSSE tables covering (\d+) days for "([^"]*)" and "([^"]*)"$`, csseTablesCoveringDaysFor)
	ctx.Step(`^I render with the "([^"]*)" backend$`, func(backend string) error { return iRender(backend, false, 0) })
	ctx.Step(`^I render with the "([^"]*)" backend skipping the video$`, func(backend string) error { return iRender(backend, true, 0) })
	ctx.Step(`^I render with the "([^"]*)" backend up to day (\d+)$`, func(backend string, day int) error { return iRender(backend, false, day) })
	ctx.Step(`^I run summary with a workbook export$`, iRunSummaryWithAWorkbookExport)
	ctx.Step(`^(\d+) frames should be written$`, framesShouldBeWritten)
	ctx.Step(`^the video should be encoded from (\d+) frames in day order$`, theVideoShouldBeEncodedFromFramesInDayOrder)
	ctx.Step(`^no video should be encoded$`, noVideoShouldBeEncoded)
	ctx.Step(`^the workbook should exist$`, theWorkbookShouldExist)
}

// writeTable writes a CSSE-style table where each country grows by step per day
func writeTable(path string, days int, rows map[[2]string]float64) error {
	ref := time.Date(2020, 1, 22, 0, 0, 0, 0, time.UTC)
	var b strings.Builder
	b.WriteString("Province/State,Country/Region,Lat,Long")
	for d := 0; d < days; d++ {
		b.WriteString("," + ref.AddDate(0, 0, d).Format("1/2/06"))
	}
	b.WriteString("\n")
	for key, step := range rows {
		fmt.Fprintf(&b, "%s,%s,0,0", key[0], key[1])
		for d := 0; d < days; d++ {
			fmt.Fprintf(&b, ",%d", int(step)*(d+1))
		}
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func csseTablesCoveringDaysFor(days int, first, second string) error {
	dataDir := filepath.Join(shared.tempDir, "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	cfg := config.Defaults()
	cfg.Data.Confirmed = filepath.Join(dataDir, "confirmed.csv")
	cfg.Data.Deaths = filepath.Join(dataDir, "deaths.csv")
	cfg.Render.FramesDir = filepath.Join(shared.tempDir, "frames")
	cfg.Render.Width = 400
	cfg.Render.Height = 300
	cfg.Video.Output = filepath.Join(shared.tempDir, "out", "spread.mp4")
	cfg.Exports.Textfile = filepath.Join(shared.tempDir, "covid.prom")
	cfg.Exports.HistoryDB = filepath.Join(shared.tempDir, "history.db")
	cfg.Regions = []config.RegionConfig{
		{Name: first, Country: "China", Province: first, Color: "grey", Population: 59_170_000},
		{Name: second, Country: second, Color: "seagreen", Population: 60_317_000},
	}
	cfg.Render.AnchorRegion = first
	if err := cfg.Validate(); err != nil {
		return err
	}
	shared.config = cfg

	rows := map[[2]string]float64{{first, "China"}: 100, {"", second}: 20}
	if err := writeTable(cfg.Data.Confirmed, days, rows); err != nil {
		return err
	}
	deaths := map[[2]string]float64{{first, "China"}: 3, {"", second}: 1}
	return writeTable(cfg.Data.Deaths, days, deaths)
}

func iRender(backend string, skipVideo bool, maxDay int) error {
	runCfg, err := cmd.RenderOptions{Backend: backend, MaxDay: maxDay, SkipVideo: skipVideo}.Apply(shared.config)
	if err != nil {
		return err
	}

	var renderer chart.Renderer = plot.NewRenderer()
	if backend == "gochart" {
		renderer = gochart.NewRenderer()
	}

	store, err := infrahistory.Open(runCfg.Exports.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	adapters := &cmd.Adapters{
		Reader:    csvsource.NewReader(),
		Files:     filesystem.NewChecker(),
		Renderer:  renderer,
		Encoder:   sharedRender.encoder,
		Exporters: []pipeline.Exporter{export.NewTextfileExporter(runCfg.Exports.Textfile)},
		History:   store,
	}

	_, shared.err = cmd.RunRenderWithDependencies(context.Background(), runCfg, skipVideo, adapters, zap.NewNop(), shared.output)
	return nil
}

func iRunSummaryWithAWorkbookExport() error {
	sharedRender.workbook = filepath.Join(shared.tempDir, "summary.xlsx")
	exporters := []pipeline.Exporter{export.NewWorkbookExporter(sharedRender.workbook)}
	shared.err = cmd.RunSummaryWithDependencies(context.Background(), shared.config, csvsource.NewReader(), filesystem.NewChecker(), exporters, shared.output)
	return nil
}

func framesShouldBeWritten(count int) error {
	frames, err := filepath.Glob(filepath.Join(shared.config.Render.FramesDir, chart.FramePattern))
	if err != nil {
		return err
	}
	if len(frames) != count {
		return fmt.Errorf("expected %d frames, found %d", count, len(frames))
	}
	return nil
}

func theVideoShouldBeEncodedFromFramesInDayOrder(count int) error {
	req := sharedRender.encoder.req
	if req == nil {
		return fmt.Errorf("video was not encoded")
	}
	if len(req.Frames) != count {
		return fmt.Errorf("expected %d frames, encoded %d", count, len(req.Frames))
	}
	for i, f := range req.Frames {
		want := chart.FrameName(timeseries.Day(5 + i))
		if filepath.Base(f) != want {
			return fmt.Errorf("frame %d is %s, want %s", i, filepath.Base(f), want)
		}
	}
	return nil
}

func noVideoShouldBeEncoded() error {
	if sharedRender.encoder.req != nil {
		return fmt.Errorf("video was encoded")
	}
	return nil
}

func theWorkbookShouldExist() error {
	if _, err := os.Stat(sharedRender.workbook); err != nil {
		return fmt.Errorf("workbook not written: %w", err)
	}
	return nil
}
