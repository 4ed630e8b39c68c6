package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-formbar/pkg/config"
)

const reloadDebounce = 100 * time.Millisecond

// Store holds the configuration served by the preview server and reloads it
// when the file on disk changes.
type Store struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	cfg      *config.Config
	loadErr  error
	reloaded chan struct{}
}

// NewStore loads the configuration at path.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("preview: config path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("preview: resolve %s: %w", path, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{path: abs, logger: logger, reloaded: make(chan struct{}, 1)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the last configuration that loaded successfully.
func (s *Store) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Err returns the error of the last reload, or nil when it succeeded.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Path returns the absolute path of the watched configuration.
func (s *Store) Path() string {
	return s.path
}

// Reload parses the configuration file again. A broken file keeps the
// previous configuration in place.
func (s *Store) Reload() error {
	cfg, err := config.LoadFile(s.path, config.WithLogger(s.logger))

	s.mu.Lock()
	s.loadErr = err
	if err == nil {
		s.cfg = cfg
	}
	first := s.cfg == nil
	s.mu.Unlock()

	select {
	case s.reloaded <- struct{}{}:
	default:
	}

	if err != nil {
		if first {
			return fmt.Errorf("preview: %w", err)
		}
		s.logger.Error("config reload failed, keeping previous config", "path", s.path, "error", err)
		return err
	}
	s.logger.Info("config loaded", "path", s.path, "forms", len(cfg.FormIDs()))
	return nil
}

// Reloaded is signalled after every reload attempt.
func (s *Store) Reloaded() <-chan struct{} {
	return s.reloaded
}

// Watch reloads the configuration whenever the file changes until ctx is
// done. The parent directory is watched so editors that replace the file on
// save are picked up too.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("preview: create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("preview: watch %s: %w", s.path, err)
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != s.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				// editors often write several times per save
				if timer == nil {
					timer = time.NewTimer(reloadDebounce)
				} else {
					timer.Reset(reloadDebounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				_ = s.Reload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("config watcher error", "error", err)
			}
		}
	}()
	return nil
}
