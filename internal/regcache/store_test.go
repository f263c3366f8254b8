package regcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	path := filepath.Join(t.TempDir(), "registries.json")
	return New(path, WithClock(clock.now)), clock
}

func TestAddThenGet(t *testing.T) {
	s, clock := newTestStore(t)

	e, err := s.Add("@acme", "https://acme.dev/r/{name}.json", "Acme blocks", true)
	require.NoError(t, err)
	assert.Equal(t, "@acme", e.Name)
	assert.Equal(t, clock.t, e.AddedAt)
	assert.Equal(t, clock.t, e.LastAccessed)

	got, ok := s.Get("@acme")
	require.True(t, ok)
	assert.Equal(t, "https://acme.dev/r/{name}.json", got.URL)
	assert.Equal(t, "Acme blocks", got.Description)
	assert.True(t, got.Verified)
}

func TestAddPreservesAddedAtAndRefreshesAccess(t *testing.T) {
	s, clock := newTestStore(t)
	first, err := s.Add("@acme", "https://acme.dev/r/{name}.json", "Acme", false)
	require.NoError(t, err)

	clock.advance(time.Hour)
	second, err := s.Add("@acme", "https://acme.dev/r/{name}.json", "", true)
	require.NoError(t, err)

	assert.Equal(t, first.AddedAt, second.AddedAt)
	assert.Equal(t, clock.t, second.LastAccessed)
	assert.Equal(t, "Acme", second.Description, "empty description keeps the stored one")
	assert.True(t, second.Verified)
}

func TestVerifiedFlag(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add("@acme", "https://acme.dev/r/{name}.json", "", true)
	require.NoError(t, err)

	// Same URL: verification is sticky.
	e, err := s.Add("@acme", "https://acme.dev/r/{name}.json", "", false)
	require.NoError(t, err)
	assert.True(t, e.Verified)

	// New URL: takes the supplied flag.
	e, err = s.Add("@acme", "https://cdn.acme.dev/{name}.json", "", false)
	require.NoError(t, err)
	assert.False(t, e.Verified)
}

func TestAddRejectsInvalidEntries(t *testing.T) {
	s, _ := newTestStore(t)

	tests := []struct {
		name, url string
	}{
		{"", "https://x.dev/{name}.json"},
		{"@x", ""},
		{"acme", "https://acme.dev/{name}.json"},
		{"@", "https://acme.dev/{name}.json"},
		{"@acme/button", "https://acme.dev/{name}.json"},
		{"@acme", "ftp://acme.dev/{name}.json"},
		{"@acme", "acme.dev/{name}.json"},
	}
	for _, tt := range tests {
		_, err := s.Add(tt.name, tt.url, "", false)
		assert.ErrorIs(t, err, ErrInvalidEntry, "Add(%q, %q)", tt.name, tt.url)
	}
	assert.NoFileExists(t, s.Path())
}

func TestRemove(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add("@acme", "https://acme.dev/r/{name}.json", "", false)
	require.NoError(t, err)

	removed, err := s.Remove("@acme")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Remove("@acme")
	require.NoError(t, err)
	assert.False(t, removed)

	_, ok := s.Get("@acme")
	assert.False(t, ok)
}

func TestAllOrdering(t *testing.T) {
	s, clock := newTestStore(t)
	for _, name := range []string{"@old", "@mid"} {
		_, err := s.Add(name, "https://"+name[1:]+".dev/{name}.json", "", false)
		require.NoError(t, err)
		clock.advance(time.Minute)
	}
	// @b and @a share a timestamp; ties sort by name.
	_, err := s.Add("@b", "https://b.dev/{name}.json", "", false)
	require.NoError(t, err)
	_, err = s.Add("@a", "https://a.dev/{name}.json", "", false)
	require.NoError(t, err)

	var names []string
	for _, e := range s.All() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"@a", "@b", "@mid", "@old"}, names)
}

func TestStats(t *testing.T) {
	s, clock := newTestStore(t)
	assert.Equal(t, Stats{}, s.Stats())

	_, err := s.Add("@a", "https://a.dev/{name}.json", "", true)
	require.NoError(t, err)
	clock.advance(time.Hour)
	_, err = s.Add("@b", "https://b.dev/{name}.json", "", false)
	require.NoError(t, err)

	st := s.Stats()
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Verified)
	assert.Equal(t, clock.t, st.LastUpdated)
}

func TestImportFromConfig(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add("@kept", "https://kept.dev/{name}.json", "", true)
	require.NoError(t, err)
	_, err = s.Add("@moved", "https://old.dev/{name}.json", "", true)
	require.NoError(t, err)

	n, err := s.ImportFromConfig(map[string]string{
		"@kept":  "https://kept.dev/{name}.json",
		"@moved": "https://new.dev/{name}.json",
		"@fresh": "https://fresh.dev/{name}.json",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	kept, _ := s.Get("@kept")
	assert.True(t, kept.Verified)
	moved, _ := s.Get("@moved")
	assert.False(t, moved.Verified)
	assert.Equal(t, "https://new.dev/{name}.json", moved.URL)
	fresh, ok := s.Get("@fresh")
	require.True(t, ok)
	assert.False(t, fresh.Verified)

	n, err = s.ImportFromConfig(map[string]string{"not-namespaced": "https://x.dev/{name}.json"})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.ImportFromConfig(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestURLs(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add("@a", "https://a.dev/{name}.json", "", false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"@a": "https://a.dev/{name}.json"}, s.URLs())
}

func TestCorruptCacheIsEmptyAndLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	path := filepath.Join(t.TempDir(), "registries.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := New(path, WithLogger(zap.New(core)))
	assert.Empty(t, s.All())
	assert.Equal(t, 1, logs.FilterMessageSnippet("corrupt").Len())

	// The next write replaces the corrupt document.
	_, err := s.Add("@a", "https://a.dev/{name}.json", "", false)
	require.NoError(t, err)
	assert.Len(t, s.All(), 1)
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registries.json")
	_, err := New(path).Add("@a", "https://a.dev/{name}.json", "A", true)
	require.NoError(t, err)

	got, ok := New(path).Get("@a")
	require.True(t, ok)
	assert.Equal(t, "A", got.Description)
	assert.NoFileExists(t, path+".tmp")
}
