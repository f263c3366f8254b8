//go:build integration

package integration_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// testEnv holds the isolated directories and fake registries of one test.
type testEnv struct {
	ProjectDir string // contains components.json
	CacheFile  string // registry cache document
	Default    *httptest.Server
	Acme       *httptest.Server
}

// setupTestEnv starts a default and an @acme registry and creates empty
// project and cache locations.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		ProjectDir: t.TempDir(),
		CacheFile:  filepath.Join(t.TempDir(), "registries.json"),
	}

	env.Default = serveRegistry(t, `[
  {"name": "button", "type": "registry:ui", "description": "Displays a button or a component that looks like a button."},
  {"name": "input", "type": "registry:ui", "description": "Displays a form input field."},
  {"name": "form", "type": "registry:ui", "description": "Building forms with validation."},
  {"name": "login-form", "type": "registry:block", "description": "A simple login form."},
  {"name": "button-demo", "type": "registry:example"}
]`, map[string]string{
		"button": `{"name": "button", "type": "registry:ui", "files": [{"path": "ui/button.tsx", "type": "registry:ui"}]}`,
	})

	env.Acme = serveRegistry(t, `{"items": [
  {"name": "login-form", "type": "registry:block", "description": "Acme login form with social providers."},
  {"name": "hero", "type": "registry:block", "description": "Landing page hero section."}
]}`, nil)

	return env
}

// serveRegistry serves the catalog at /r/index.json and items by name.
func serveRegistry(t *testing.T, catalog string, items map[string]string) *httptest.Server {
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

func template(srv *httptest.Server) string {
	return srv.URL + "/r/{name}.json"
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
