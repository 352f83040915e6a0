package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch monitors the config file and the extra paths (data files) and calls
// onChange each time one of them is written. A config change reloads the file;
// a data change reuses the current config. It runs until ctx is cancelled.
//
// The parent directories are watched rather than the files, so saves that
// replace the file through a rename keep being observed.
//
// If a reload fails (e.g., invalid YAML), the error is logged and the
// previous config remains active; onChange is not called.
func Watch(ctx context.Context, path string, current *Config, logger *zap.Logger, onChange func(*Config), extra ...string) error {
	configPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	targets := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range append([]string{path}, extra...) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("cannot watch %s: %w", p, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watchedDirs := make([]string, 0, len(dirs))
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
		watchedDirs = append(watchedDirs, dir)
	}

	logger.Info("config: watching for changes",
		zap.String("config", configPath),
		zap.Int("files", len(targets)),
		zap.Strings("dirs", watchedDirs))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if !targets[name] {
				continue
			}
			// A rename onto the path arrives as Create
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if name == configPath {
				cfg, err := Load(path)
				if err != nil {
					logger.Error("config: reload failed, keeping previous config",
						zap.String("path", path), zap.Error(err))
					continue
				}
				current = cfg
				logger.Info("config: reloaded", zap.String("path", path))
			} else {
				logger.Info("config: input changed", zap.String("path", name))
			}

			onChange(current)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("config: watcher error", zap.Error(err))
		}
	}
}
