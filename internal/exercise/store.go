package exercise

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/repsense-data/repsense/internal/security"
)

// Store is an explicit, injectable registry of exercise configs keyed by
// normalized name. It replaces any hidden module-level cache so the engine
// stays pure and callers control caching policy.
type Store struct {
	mu      sync.RWMutex
	configs map[string]*Config
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{configs: make(map[string]*Config)}
}

// Put validates and registers a config, replacing any existing entry with
// the same normalized name.
func (s *Store) Put(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[NormalizeName(cfg.Name)] = cfg
	return nil
}

// Lookup returns the config for the given exercise name, matched after
// normalization.
func (s *Store) Lookup(name string) (*Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[NormalizeName(name)]
	return cfg, ok
}

// Names returns the registered exercise names, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.configs))
	for _, cfg := range s.configs {
		names = append(names, cfg.Name)
	}
	sort.Strings(names)
	return names
}

// LoadDir registers every *.json exercise config in dir. Files that fail to
// parse or validate are skipped with a log line rather than aborting the
// whole load, so one bad config cannot take down startup.
func (s *Store) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read exercise config dir: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := security.ValidatePathWithinDirectory(path, dir); err != nil {
			log.Printf("Skipping exercise config %s: %v", path, err)
			continue
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			log.Printf("Skipping exercise config %s: %v", path, err)
			continue
		}
		if err := s.Put(cfg); err != nil {
			log.Printf("Skipping exercise config %s: %v", path, err)
			continue
		}
		loaded++
	}
	return loaded, nil
}
