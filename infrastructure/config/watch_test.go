package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

// saveByRename replaces path the way editors do: write a sibling, then rename over it
func saveByRename(t *testing.T, cfg *Config, path string) {
	t.Helper()
	tmp := path + ".tmp"
	if err := Save(cfg, tmp); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
}

func waitForFPS(t *testing.T, changes <-chan *Config, fps int, save func()) {
	t.Helper()
	// The watcher may not be registered yet, so keep saving until the reload shows up
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.Video.FPS == fps {
				return
			}
		case <-ticker.C:
			save()
		case <-deadline:
			t.Fatalf("no reload with fps %d", fps)
		}
	}
}

func TestWatch_SurvivesRenameSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := Defaults()
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 100)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, cfg, zap.NewNop(), func(c *Config) { changes <- c })
	}()

	first := Defaults()
	first.Video.FPS = 7
	waitForFPS(t, changes, 7, func() { saveByRename(t, first, path) })

	// A second rename save must still be seen after the first replaced the file
	second := Defaults()
	second.Video.FPS = 9
	waitForFPS(t, changes, 9, func() { saveByRename(t, second, path) })

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatch_IgnoresOtherFilesInDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := Defaults()
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 100)
	go func() {
		_ = Watch(ctx, path, cfg, zap.NewNop(), func(c *Config) { changes <- c })
	}()

	// Give the watcher time to register, then touch an unrelated sibling
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changes:
		t.Errorf("unexpected change for unrelated file: %+v", c.Video)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatch_MissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := Save(Defaults(), path); err != nil {
		t.Fatal(err)
	}

	err := Watch(context.Background(), path, Defaults(), zap.NewNop(), func(*Config) {}, filepath.Join(dir, "missing.csv"))
	if err == nil {
		t.Error("Watch() expected error for a missing data file")
	}
}
