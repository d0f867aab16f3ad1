package handlers

import (
	"bytes"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/silevilence/picto-mino/internal/levelpkg"
)

// LevelStore is the in-memory catalog of .level files available to
// play, loaded once at startup from an fs.FS.
type LevelStore struct {
	byID  map[string]*levelpkg.Level
	order []string
}

// NewLevelStore returns an empty store, ready for Add.
func NewLevelStore() *LevelStore {
	return &LevelStore{byID: make(map[string]*levelpkg.Level)}
}

// LoadLevelStore reads every *.level file directly under dir and keys
// it by filename without the .level extension.
func LoadLevelStore(dir fs.FS) (*LevelStore, error) {
	entries, err := fs.ReadDir(dir, ".")
	if err != nil {
		return nil, err
	}

	store := &LevelStore{byID: make(map[string]*levelpkg.Level)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".level") {
			continue
		}
		data, err := fs.ReadFile(dir, e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		lvl, err := levelpkg.Read(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", e.Name(), err)
		}
		id := strings.TrimSuffix(e.Name(), ".level")
		store.byID[id] = lvl
		store.order = append(store.order, id)
	}
	sort.Strings(store.order)
	return store, nil
}

// Add registers or replaces a level under id, keeping IDs in sorted
// order. Used to merge in-process seed levels alongside anything
// loaded from disk.
func (s *LevelStore) Add(id string, lvl *levelpkg.Level) {
	if _, exists := s.byID[id]; !exists {
		s.order = append(s.order, id)
		sort.Strings(s.order)
	}
	s.byID[id] = lvl
}

// Get returns the level registered under id.
func (s *LevelStore) Get(id string) (*levelpkg.Level, bool) {
	lvl, ok := s.byID[id]
	return lvl, ok
}

// IDs returns every registered level id in a stable order.
func (s *LevelStore) IDs() []string {
	return s.order
}
