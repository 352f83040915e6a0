package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"covid-spread/domain/chart"
	"covid-spread/domain/video"
)

// Checker implements video.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// PrepareDir creates dir and removes frame images left by an earlier run
func (c *Checker) PrepareDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	stale, err := filepath.Glob(filepath.Join(dir, chart.FramePattern))
	if err != nil {
		return err
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove stale frame: %w", err)
		}
	}
	return nil
}

// RemoveFiles deletes the given files, ignoring ones already gone
func (c *Checker) RemoveFiles(paths []string) error {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

// Ensure Checker implements video.FileChecker
var _ video.FileChecker = (*Checker)(nil)
