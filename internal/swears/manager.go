package swears

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"bleep/internal/logging"
)

// DefaultListID identifies the bundled list.
const DefaultListID = "default"

//go:embed default_swears.txt
var defaultList []byte

// Manager loads, normalizes, and caches swear lists. Cached entries expire
// after the configured TTL and are reloaded from their source on next access.
// Safe for concurrent use.
type Manager struct {
	mu          sync.RWMutex
	cache       map[string]cacheEntry
	sources     map[string]string // list id -> file path for reload after expiry
	ttl         time.Duration
	defaultPath string // optional override for the bundled list
	now         func() time.Time
	logger      *logging.Logger
}

type cacheEntry struct {
	set      *Set
	loadedAt time.Time
}

func NewManager(ttl time.Duration, logger *logging.Logger) *Manager {
	return &Manager{
		cache:   make(map[string]cacheEntry),
		sources: make(map[string]string),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// SetDefaultPath overrides the bundled default list with a file on disk.
func (m *Manager) SetDefaultPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPath = path
	delete(m.cache, DefaultListID)
}

// LoadDefault returns the built-in list, from cache when fresh.
func (m *Manager) LoadDefault() (*Set, error) {
	if set, ok := m.cached(DefaultListID); ok {
		return set, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data := defaultList
	if m.defaultPath != "" {
		var err error
		data, err = os.ReadFile(m.defaultPath)
		if err != nil {
			return nil, fmt.Errorf("%w: default list %s: %v", ErrLoad, m.defaultPath, err)
		}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: bundled default list is empty", ErrLoad)
	}

	set, dropped, err := parse(DefaultListID, DetectFormat(m.defaultPath, data), data)
	if err != nil {
		return nil, err
	}
	m.warnDropped(dropped)

	m.cache[DefaultListID] = cacheEntry{set: set, loadedAt: m.now()}
	return set, nil
}

// LoadCustom loads a user-supplied list from a newline-delimited word file or
// a structured JSON file and caches it under the given identifier.
func (m *Manager) LoadCustom(path, id string) (*Set, error) {
	if id == "" || id == DefaultListID {
		return nil, fmt.Errorf("%w: invalid custom list id %q", ErrLoad, id)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
	}

	set, dropped, err := parse(id, DetectFormat(path, data), data)
	if err != nil {
		return nil, err
	}
	m.warnDropped(dropped)

	m.mu.Lock()
	m.cache[id] = cacheEntry{set: set, loadedAt: m.now()}
	m.sources[id] = path
	m.mu.Unlock()

	m.logger.Infow("Loaded swear list",
		"id", id,
		"words", set.Len(),
		"format", string(set.Source),
	)
	return set, nil
}

// Get returns a list by identifier, reloading from its recorded source when
// the cache entry has expired.
func (m *Manager) Get(id string) (*Set, error) {
	if set, ok := m.cached(id); ok {
		return set, nil
	}
	if id == DefaultListID {
		return m.LoadDefault()
	}

	m.mu.RLock()
	path, ok := m.sources[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown list %q", ErrLoad, id)
	}
	return m.LoadCustom(path, id)
}

// Invalidate drops a cache entry so the next access reloads it.
func (m *Manager) Invalidate(id string) {
	m.mu.Lock()
	delete(m.cache, id)
	m.mu.Unlock()
}

// Available returns the known list identifiers, default first.
func (m *Manager) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sources))
	for id := range m.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return append([]string{DefaultListID}, ids...)
}

// Save serializes raw words to plain-text or JSON format.
func (m *Manager) Save(words []string, dest string, format SourceFormat) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	var data []byte
	switch format {
	case FormatJSON:
		var err error
		data, err = json.MarshalIndent(words, "", "  ")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
		data = append(data, '\n')
	default:
		var sb strings.Builder
		for _, w := range words {
			if w = strings.TrimSpace(w); w != "" {
				sb.WriteString(w)
				sb.WriteByte('\n')
			}
		}
		data = []byte(sb.String())
	}

	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, dest, err)
	}

	m.logger.Infow("Saved swear list",
		"path", dest,
		"words", len(words),
	)
	return nil
}

// cached returns a fresh cache entry; expired entries are treated as absent.
func (m *Manager) cached(id string) (*Set, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.cache[id]
	if !ok {
		return nil, false
	}
	if m.ttl > 0 && m.now().Sub(entry.loadedAt) > m.ttl {
		return nil, false
	}
	return entry.set, true
}

func (m *Manager) warnDropped(dropped []string) {
	for _, w := range dropped {
		m.logger.Warnw("Discarding word that normalizes to empty string",
			"word", w,
		)
	}
}
