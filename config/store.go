package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Store is the live, persisted configuration. The favorites set is the
// persistence side of the dwell favorite switches.
type Store struct {
	path string
	log  *slog.Logger

	mu          sync.RWMutex
	cfg         Config
	favorites   map[string]struct{}
	lastWritten []byte
	subs        []func()
}

// OpenStore loads path (or the defaults if missing) into a new Store.
func OpenStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Store{path: path, log: logger.With("component", "config")}
	s.set(cfg)
	return s, nil
}

// SetLogger replaces the logger. Call it before Watch starts.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.log = logger.With("component", "config")
	}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) set(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.favorites = make(map[string]struct{}, len(cfg.FavoriteGames))
	for _, id := range cfg.FavoriteGames {
		s.favorites[id] = struct{}{}
	}
}

// Config returns a copy of the current config with the favorites in sorted
// order.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Config {
	cfg := s.cfg
	cfg.FavoriteGames = make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		cfg.FavoriteGames = append(cfg.FavoriteGames, id)
	}
	sort.Strings(cfg.FavoriteGames)
	return cfg
}

// Contains reports whether id is a favorite game.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.favorites[id]
	return ok
}

// Add marks id as favorite.
func (s *Store) Add(id string) {
	s.mu.Lock()
	s.favorites[id] = struct{}{}
	s.mu.Unlock()
}

// Remove unmarks id.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.favorites, id)
	s.mu.Unlock()
}

// Favorites returns the sorted favorite ids.
func (s *Store) Favorites() []string {
	return s.Config().FavoriteGames
}

// Save writes the current config to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := Encode(s.snapshotLocked())
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}
	s.lastWritten = data
	return nil
}

// SaveIgnoringFailures saves and only logs a failure. The in-memory state is
// kept either way, so memory and disk may disagree until the next successful
// save.
func (s *Store) SaveIgnoringFailures() {
	if err := s.Save(); err != nil {
		s.log.Warn("failed to save config, keeping in-memory state", "path", s.path, "err", err)
	}
}

// OnChange registers fn to run after the file was reloaded.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Reload re-reads the file and notifies subscribers. On error the current
// state is kept.
func (s *Store) Reload() error {
	cfg, err := Load(s.path)
	if err != nil {
		return err
	}
	s.set(cfg)

	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
	return nil
}

// Watch reloads the store whenever another process rewrites the file. It
// blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	// watch the directory, atomic saves replace the file inode
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("config watcher error", "err", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			s.handleFileChange()
		}
	}
}

func (s *Store) handleFileChange() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		// partial replace, a later event will follow
		return
	}
	s.mu.RLock()
	own := bytes.Equal(data, s.lastWritten)
	s.mu.RUnlock()
	if own {
		return
	}
	if err := s.Reload(); err != nil {
		s.log.Warn("ignoring external config change", "err", err)
		return
	}
	s.mu.Lock()
	s.lastWritten = data
	s.mu.Unlock()
	s.log.Info("config reloaded", "path", s.path)
}
