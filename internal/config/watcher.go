package config

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Store holds the current configuration and swaps it atomically when
// the file changes on disk, so mapping repairs take effect without a
// restart.
type Store struct {
	mu      sync.RWMutex
	current Config

	path          string
	logger        *log.Logger
	watcher       *fsnotify.Watcher
	debounceTimer *time.Timer
	stop          chan struct{}
	stopOnce      sync.Once
}

// NewStore constructs a Store seeded with the config at path.
func NewStore(path string, logger *log.Logger) (*Store, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{current: cfg, path: path, logger: logger, stop: make(chan struct{})}, nil
}

// Current returns the active configuration.
func (s *Store) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Watch starts reloading the config file on writes. Editors replace
// files rather than write in place, so the parent directory is watched
// and events are debounced.
func (s *Store) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return err
	}
	s.watcher = watcher
	go s.watchLoop()
	return nil
}

// Close stops the watcher.
func (s *Store) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
		if s.watcher != nil {
			_ = s.watcher.Close()
		}
	})
}

func (s *Store) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if s.debounceTimer != nil {
				s.debounceTimer.Stop()
			}
			s.debounceTimer = time.AfterFunc(debounceInterval, s.reload)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			if s.logger != nil {
				s.logger.Printf("config watch error: %v", err)
			}
		case <-s.stop:
			return
		}
	}
}

// reload re-reads the file, keeping the previous config when the new
// one fails to load or validate.
func (s *Store) reload() {
	cfg, err := Load(s.path)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("config reload rejected: %v", err)
		}
		return
	}
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Printf("config reloaded: %d mappings, %d composite rules",
			len(cfg.ScenarioMappings), len(cfg.CompositeRules))
	}
}
