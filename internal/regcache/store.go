// Package regcache persists the registries a developer has used. The cache is
// one JSON document keyed by registry name; every mutation re-reads the file,
// applies the change and rewrites the whole document. There is no locking:
// concurrent writers race and the last one wins.
package regcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrInvalidEntry is returned when a registry name or URL is rejected.
var ErrInvalidEntry = errors.New("invalid registry entry")

var validate = validator.New()

// entryInput is what callers may supply for an entry. Names are namespaced
// ("@acme") and URLs are absolute http(s) templates.
type entryInput struct {
	Name string `validate:"required,min=2,startswith=@,excludes=/"`
	URL  string `validate:"required,url,startswith=http"`
}

func checkEntry(name, url string) error {
	if err := validate.Struct(entryInput{Name: name, URL: url}); err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidEntry, name, url, err)
	}
	return nil
}

// Entry is one cached registry.
type Entry struct {
	Name         string    `json:"-"`
	URL          string    `json:"url"`
	Description  string    `json:"description,omitempty"`
	Verified     bool      `json:"verified"`
	AddedAt      time.Time `json:"addedAt"`
	LastAccessed time.Time `json:"lastAccessed"`
}

// Stats summarizes the cache.
type Stats struct {
	Total       int       `json:"total"`
	Verified    int       `json:"verified"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Store reads and writes the cache file at a fixed path.
type Store struct {
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded-cache warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns a Store for the cache file at path. The file is not touched
// until the first call.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// load reads the cache. A missing file is an empty cache; an unreadable or
// corrupt file is logged and also treated as empty.
func (s *Store) load() map[string]*Entry {
	entries := make(map[string]*Entry)

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return entries
	}
	if err != nil {
		s.logger.Warn("registry cache unreadable, starting empty", zap.String("path", s.path), zap.Error(err))
		return entries
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("registry cache corrupt, starting empty", zap.String("path", s.path), zap.Error(err))
		return make(map[string]*Entry)
	}
	for name, e := range entries {
		if e == nil {
			delete(entries, name)
			continue
		}
		e.Name = name
	}
	return entries
}

// save rewrites the whole document via a temp file and rename.
func (s *Store) save(entries map[string]*Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing registry cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing registry cache: %w", err)
	}
	return nil
}

// Add inserts or updates a registry. AddedAt is set only on first insert and
// LastAccessed is always refreshed. An existing verified flag survives a
// re-add with the same URL; a changed URL takes the supplied flag. An empty
// description keeps the stored one.
func (s *Store) Add(name, url, description string, verified bool) (Entry, error) {
	if err := checkEntry(name, url); err != nil {
		return Entry{}, err
	}

	entries := s.load()
	now := s.now()

	e, ok := entries[name]
	if !ok {
		e = &Entry{Name: name, AddedAt: now}
		entries[name] = e
	}
	if ok && e.URL == url {
		verified = verified || e.Verified
	}
	e.URL = url
	e.Verified = verified
	if description != "" {
		e.Description = description
	}
	e.LastAccessed = now

	if err := s.save(entries); err != nil {
		return Entry{}, err
	}
	return *e, nil
}

// Remove deletes a registry and reports whether it existed. The file is not
// rewritten when nothing was removed.
func (s *Store) Remove(name string) (bool, error) {
	entries := s.load()
	if _, ok := entries[name]; !ok {
		return false, nil
	}
	delete(entries, name)
	if err := s.save(entries); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns one entry.
func (s *Store) Get(name string) (Entry, bool) {
	e, ok := s.load()[name]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// All returns every entry, most recently accessed first; ties are ordered
// by name.
func (s *Store) All() []Entry {
	entries := s.load()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastAccessed.Equal(out[j].LastAccessed) {
			return out[i].LastAccessed.After(out[j].LastAccessed)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// URLs returns name → URL template for every entry.
func (s *Store) URLs() map[string]string {
	entries := s.load()
	out := make(map[string]string, len(entries))
	for name, e := range entries {
		out[name] = e.URL
	}
	return out
}

// Stats returns totals and the most recent access time.
func (s *Store) Stats() Stats {
	var st Stats
	for _, e := range s.load() {
		st.Total++
		if e.Verified {
			st.Verified++
		}
		if e.LastAccessed.After(st.LastUpdated) {
			st.LastUpdated = e.LastAccessed
		}
	}
	return st
}

// ImportFromConfig merges name → URL pairs from a project configuration in
// one write. New entries are unverified; existing entries keep their
// verified flag when the URL is unchanged. It returns the number of entries
// that were added or changed.
func (s *Store) ImportFromConfig(registries map[string]string) (int, error) {
	if len(registries) == 0 {
		return 0, nil
	}

	entries := s.load()
	now := s.now()

	names := make([]string, 0, len(registries))
	for name := range registries {
		names = append(names, name)
	}
	sort.Strings(names)

	changed := 0
	for _, name := range names {
		url := registries[name]
		if err := checkEntry(name, url); err != nil {
			s.logger.Warn("skipping registry", zap.Error(err))
			continue
		}
		e, ok := entries[name]
		switch {
		case !ok:
			entries[name] = &Entry{Name: name, URL: url, AddedAt: now, LastAccessed: now}
			changed++
		case e.URL != url:
			e.URL = url
			e.Verified = false
			e.LastAccessed = now
			changed++
		}
	}

	if changed == 0 {
		return 0, nil
	}
	if err := s.save(entries); err != nil {
		return 0, err
	}
	return changed, nil
}
