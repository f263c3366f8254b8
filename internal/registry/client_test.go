package registry

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `[
  {"name": "button", "type": "registry:ui", "description": "Displays a button."},
  {"name": "login-form", "type": "registry:block", "description": "A user login form."},
  {"name": "button-demo", "type": "registry:example"},
  {"type": "registry:ui", "description": "nameless entries are dropped"}
]`

// newFakeRegistry serves /r/{name}.json. The catalog is served for "index";
// known items are served by name; everything else is a 404.
func newFakeRegistry(t *testing.T, catalog string, items map[string]string) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/r/{file}", func(w http.ResponseWriter, req *http.Request) {
		name := strings.TrimSuffix(chi.URLParam(req, "file"), ".json")
		w.Header().Set("Content-Type", "application/json")
		if name == "index" {
			w.Write([]byte(catalog))
			return
		}
		body, ok := items[name]
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Write([]byte(body))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func writeProjectConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "components.json"), []byte(content), 0644))
}

func TestListComponentsDefaultRegistry(t *testing.T) {
	srv := newFakeRegistry(t, testCatalog, nil)
	c := New(WithDefaultRegistry(srv.URL+"/r/{name}.json"), WithProject(t.TempDir(), ""))

	items, res, err := c.ListComponents(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, res, "default registry should not report a resolution")
	require.Len(t, items, 3)
	assert.Equal(t, "button", items[0].Name)
	assert.Equal(t, DefaultRegistryName, items[0].Registry)
}

func TestListComponentsNamedRegistryReportsResolution(t *testing.T) {
	srv := newFakeRegistry(t, `{"items": [{"name": "hero", "type": "registry:block"}]}`, nil)
	dir := t.TempDir()
	writeProjectConfig(t, dir, `{"registries": {"@acme": "`+srv.URL+`/r/{name}.json"}}`)

	c := New(WithProject(dir, ""))
	items, res, err := c.ListComponents(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "@acme", items[0].Registry)

	require.NotNil(t, res)
	assert.Equal(t, "@acme", res.Name)
	assert.True(t, res.Verified)
	assert.Contains(t, res.URL, "{name}")
}

func TestListComponentsNoProjectConfig(t *testing.T) {
	c := New(WithProject(t.TempDir(), ""))
	_, _, err := c.ListComponents(context.Background(), "@acme")
	assert.ErrorIs(t, err, ErrNoProjectConfig)
}

func TestListComponentsUnknownRegistryWithConfig(t *testing.T) {
	dir := t.TempDir()
	writeProjectConfig(t, dir, `{"registries": {}}`)

	c := New(WithProject(dir, ""))
	_, _, err := c.ListComponents(context.Background(), "@missing")
	assert.ErrorIs(t, err, ErrRegistryUnreachable)
}

func TestListComponentsKnownRegistryFallback(t *testing.T) {
	srv := newFakeRegistry(t, testCatalog, nil)
	c := New(
		WithProject(t.TempDir(), ""),
		WithKnownRegistries(map[string]string{"@cached": srv.URL + "/r/{name}.json"}),
	)

	items, res, err := c.ListComponents(context.Background(), "@cached")
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	require.NotNil(t, res)
	assert.Equal(t, "@cached", res.Name)
}

func TestListComponentsMalformed(t *testing.T) {
	srv := newFakeRegistry(t, `<html>not json</html>`, nil)
	c := New(WithDefaultRegistry(srv.URL + "/r/{name}.json"))

	_, _, err := c.ListComponents(context.Background(), "")
	assert.ErrorIs(t, err, ErrRegistryUnreachable)
}

func TestListComponentsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := New(WithDefaultRegistry(srv.URL+"/{name}.json"), WithTimeout(50*time.Millisecond))
	start := time.Now()
	_, _, err := c.ListComponents(context.Background(), "")
	require.ErrorIs(t, err, ErrRegistryUnreachable)
	assert.Less(t, time.Since(start), time.Second, "request was not bounded by the timeout")
}

func TestProjectHeadersAreSent(t *testing.T) {
	t.Setenv("ACME_TOKEN", "s3cret")

	var gotAuth, gotParam string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotParam = r.URL.Query().Get("token")
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	writeProjectConfig(t, dir, `{"registries": {"@acme": {
		"url": "`+srv.URL+`/{name}.json",
		"headers": {"Authorization": "Bearer ${ACME_TOKEN}"},
		"params": {"token": "${ACME_TOKEN}"}
	}}}`)

	c := New(WithProject(dir, ""))
	_, _, err := c.ListComponents(context.Background(), "@acme")
	require.NoError(t, err)
	assert.Equal(t, "Bearer s3cret", gotAuth)
	assert.Equal(t, "s3cret", gotParam)
}

func TestSearchComponentsEmptyQuery(t *testing.T) {
	c := New()
	_, _, err := c.SearchComponents(context.Background(), "   ", "", SearchOptions{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSearchComponentsLocalFallback(t *testing.T) {
	srv := newFakeRegistry(t, testCatalog, nil)
	c := New(WithDefaultRegistry(srv.URL + "/r/{name}.json"))

	res, _, err := c.SearchComponents(context.Background(), "BUTTON", "", SearchOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "button", res.Items[0].Name)
	assert.Equal(t, Pagination{Offset: 0, Limit: 1, Total: 2, HasMore: true}, res.Pagination)
}

func TestSearchComponentsHugeLimit(t *testing.T) {
	srv := newFakeRegistry(t, testCatalog, nil)
	c := New(WithDefaultRegistry(srv.URL + "/r/{name}.json"))

	res, _, err := c.SearchComponents(context.Background(), "button", "", SearchOptions{Offset: 1, Limit: math.MaxInt})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "button-demo", res.Items[0].Name)
	assert.False(t, res.Pagination.HasMore)
}

func TestPaginate(t *testing.T) {
	items := []ComponentItem{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	tests := []struct {
		name    string
		opts    SearchOptions
		want    []string
		hasMore bool
	}{
		{"first page", SearchOptions{Offset: 0, Limit: 2}, []string{"a", "b"}, true},
		{"last page", SearchOptions{Offset: 2, Limit: 2}, []string{"c"}, false},
		{"exact fit", SearchOptions{Offset: 0, Limit: 3}, []string{"a", "b", "c"}, false},
		{"past the end", SearchOptions{Offset: 5, Limit: 2}, nil, false},
		{"max limit", SearchOptions{Offset: 1, Limit: math.MaxInt}, []string{"b", "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, page := paginate(items, tt.opts)
			var names []string
			for _, it := range got {
				names = append(names, it.Name)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, tt.hasMore, page.HasMore)
			assert.Equal(t, 3, page.Total)
		})
	}
}

func TestSearchComponentsDelegated(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"items": [{"name": "calendar"}], "pagination": {"offset": 5, "limit": 1, "total": 9, "hasMore": true}}`))
	}))
	t.Cleanup(srv.Close)

	c := New(WithDefaultRegistry(srv.URL + "/{name}.json"))
	res, _, err := c.SearchComponents(context.Background(), "date picker", "", SearchOptions{Offset: 5, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "date picker", gotQuery)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "calendar", res.Items[0].Name)
	assert.Equal(t, 9, res.Pagination.Total)
	assert.True(t, res.Pagination.HasMore)
	assert.Equal(t, 5, res.Pagination.Offset)
}

func TestViewComponent(t *testing.T) {
	srv := newFakeRegistry(t, testCatalog, map[string]string{
		"button": `{"name": "button", "type": "registry:ui", "dependencies": ["@radix-ui/react-slot"],
			"files": [{"path": "ui/button.tsx", "type": "registry:ui", "content": "export {}"}]}`,
	})
	c := New(WithDefaultRegistry(srv.URL + "/r/{name}.json"))

	item, res, err := c.ViewComponent(context.Background(), "button")
	require.NoError(t, err)
	assert.Nil(t, res)
	require.Len(t, item.Files, 1)
	assert.Equal(t, "ui/button.tsx", item.Files[0].Path)
	assert.Len(t, item.Dependencies, 1)
}

func TestViewComponentNotFound(t *testing.T) {
	srv := newFakeRegistry(t, testCatalog, nil)
	c := New(WithDefaultRegistry(srv.URL + "/r/{name}.json"))

	_, _, err := c.ViewComponent(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrComponentNotFound)
}

func TestViewComponentNamespaced(t *testing.T) {
	srv := newFakeRegistry(t, `[]`, map[string]string{"hero": `{"name": "hero"}`})
	dir := t.TempDir()
	writeProjectConfig(t, dir, `{"registries": {"@acme": "`+srv.URL+`/r/{name}.json"}}`)

	c := New(WithProject(dir, ""))
	item, res, err := c.ViewComponent(context.Background(), "@acme/hero")
	require.NoError(t, err)
	assert.Equal(t, "@acme/hero", item.QualifiedName())
	require.NotNil(t, res)
	assert.Equal(t, "@acme", res.Name)
}

type upperEnricher struct{}

func (upperEnricher) Enrich(it ComponentItem) ComponentItem {
	it.Category = "enriched"
	return it
}

func TestEnricherApplied(t *testing.T) {
	srv := newFakeRegistry(t, testCatalog, nil)
	c := New(WithDefaultRegistry(srv.URL+"/r/{name}.json"), WithEnricher(upperEnricher{}))

	items, _, err := c.ListComponents(context.Background(), "")
	require.NoError(t, err)
	for _, it := range items {
		assert.Equal(t, "enriched", it.Category, it.Name)
	}
}

func TestExamples(t *testing.T) {
	srv := newFakeRegistry(t, testCatalog, map[string]string{
		"card-demo": `{"name": "card-demo", "type": "registry:example"}`,
	})
	c := New(WithDefaultRegistry(srv.URL + "/r/{name}.json"))

	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr error
	}{
		{"listed in catalog", "button", "button-demo", nil},
		{"fetched directly", "card", "card-demo", nil},
		{"no examples", "calendar", "", ErrComponentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := c.Examples(context.Background(), tt.arg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Name)
		})
	}
}

func TestProjectInfo(t *testing.T) {
	dir := t.TempDir()
	c := New(WithProject(dir, ""))

	info, err := c.ProjectInfo()
	require.NoError(t, err)
	assert.False(t, info.HasConfig, "no components.json yet")

	writeProjectConfig(t, dir, `{"registries": {
		"@zeta": "https://zeta.dev/r/{name}.json",
		"@acme": {"url": "https://acme.dev/r/{name}.json"}
	}}`)
	info, err = c.ProjectInfo()
	require.NoError(t, err)
	require.True(t, info.HasConfig)
	assert.Equal(t, []string{"@acme", "@zeta"}, info.Registries)
	assert.Equal(t, "https://acme.dev/r/{name}.json", info.RegistryURLs["@acme"])
}

func TestExpandTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		item     string
		want     string
		wantErr  bool
	}{
		{"placeholder", "https://x.dev/r/{name}.json", "button", "https://x.dev/r/button.json", false},
		{"base url", "https://x.dev/r/", "button", "https://x.dev/r/button.json", false},
		{"bad scheme", "ftp://x.dev/{name}", "button", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandTemplate(tt.template, tt.item, nil, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
