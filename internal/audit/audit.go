// Package audit runs health checks over the project config, the configured
// registries and the local registry cache. Results are printed as one line
// per check with a [ OK ], [WARN], [MISS] or [FAIL] marker.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/agentx-labs/uiscout/internal/regcache"
	"github.com/agentx-labs/uiscout/internal/registry"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Prober is the part of the registry client the audit uses.
type Prober interface {
	ListComponents(ctx context.Context, registryName string) ([]registry.ComponentItem, *registry.Resolution, error)
	ProjectInfo() (*registry.ProjectInfo, error)
}

// Options configures a run.
type Options struct {
	Client Prober
	Cache  *regcache.Store
	// InitHint is printed under a missing project config, e.g. "npx shadcn@latest init".
	InitHint string
	Logger   *zap.Logger
}

// Report counts check outcomes.
type Report struct {
	OK       int
	Warnings int
	Missing  int
	Failures int
}

// Healthy reports whether no check failed. Warnings and missing optional
// files do not make a report unhealthy.
func (r Report) Healthy() bool {
	return r.Failures == 0
}

type auditor struct {
	w      io.Writer
	opts   Options
	report Report
	p      *message.Printer
}

func (a *auditor) ok(format string, args ...any) {
	a.report.OK++
	a.line("[ OK ]", format, args...)
}

func (a *auditor) warn(format string, args ...any) {
	a.report.Warnings++
	a.line("[WARN]", format, args...)
}

func (a *auditor) miss(format string, args ...any) {
	a.report.Missing++
	a.line("[MISS]", format, args...)
}

func (a *auditor) fail(format string, args ...any) {
	a.report.Failures++
	a.line("[FAIL]", format, args...)
}

func (a *auditor) line(marker, format string, args ...any) {
	fmt.Fprintf(a.w, "  %s %s\n", marker, a.p.Sprintf(format, args...))
}

func (a *auditor) hint(s string) {
	fmt.Fprintf(a.w, "         %s\n", s)
}

// Run executes every check, writing results to w. Registries that answer are
// recorded in the cache as verified.
func Run(ctx context.Context, w io.Writer, opts Options) Report {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	a := &auditor{w: w, opts: opts, p: message.NewPrinter(language.English)}

	fmt.Fprintln(w, "Project config:")
	info := a.checkProject()

	fmt.Fprintln(w, "\nRegistries:")
	a.checkRegistries(ctx, info)

	fmt.Fprintln(w, "\nRegistry cache:")
	a.checkCache()

	fmt.Fprintf(w, "\n%s\n", a.p.Sprintf("%d ok, %d warnings, %d missing, %d failed",
		a.report.OK, a.report.Warnings, a.report.Missing, a.report.Failures))
	return a.report
}

// checkProject returns the project info, or nil when it cannot be read.
func (a *auditor) checkProject() *registry.ProjectInfo {
	info, err := a.opts.Client.ProjectInfo()
	if err != nil {
		a.fail("components.json could not be parsed: %v", err)
		return nil
	}
	if !info.HasConfig {
		a.miss("%s not found (named registries unavailable)", info.ConfigPath)
		if a.opts.InitHint != "" {
			a.hint(fmt.Sprintf("Run '%s' to create it", a.opts.InitHint))
		}
		return info
	}
	a.ok("%s found", info.ConfigPath)

	res, err := registry.ValidateProjectConfigFile(info.ConfigPath)
	switch {
	case err != nil:
		a.fail("%s could not be validated: %v", info.ConfigPath, err)
	case !res.Valid:
		a.fail("%s does not match the components.json schema", info.ConfigPath)
		for _, is := range res.Issues {
			path := is.Path
			if path == "" {
				path = "/"
			}
			a.hint(fmt.Sprintf("%s: %s", path, is.Message))
		}
	default:
		a.ok("schema valid (%d registries configured)", len(info.Registries))
	}
	return info
}

func (a *auditor) checkRegistries(ctx context.Context, info *registry.ProjectInfo) {
	names := []string{""}
	if info != nil {
		names = append(names, info.Registries...)
	}

	for _, name := range names {
		label := name
		if label == "" {
			label = registry.DefaultRegistryName
		} else if registry.NormalizeRegistryName(name) == registry.DefaultRegistryName {
			continue
		}

		items, res, err := a.opts.Client.ListComponents(ctx, name)
		if err != nil {
			a.fail("%s unreachable: %v", label, err)
			continue
		}
		a.ok("%s reachable (%d components)", label, len(items))

		if res != nil && a.opts.Cache != nil {
			if _, err := a.opts.Cache.Add(res.Name, res.URL, "", res.Verified); err != nil {
				a.opts.Logger.Warn("could not record registry", zap.String("registry", res.Name), zap.Error(err))
			}
		}
	}
}

func (a *auditor) checkCache() {
	if a.opts.Cache == nil {
		return
	}
	path := a.opts.Cache.Path()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		a.miss("%s not created yet", path)
		return
	case err != nil:
		a.warn("%s unreadable and will be treated as empty: %v", path, err)
		return
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		a.warn("%s is corrupt and will be treated as empty: %v", path, err)
		a.hint("Delete the file or re-add registries to rebuild it")
		return
	}

	st := a.opts.Cache.Stats()
	a.ok("%s readable (%d registries, %d verified)", path, st.Total, st.Verified)

	for _, e := range a.opts.Cache.All() {
		if !e.Verified {
			a.warn("%s has never been reached successfully", e.Name)
		}
	}
}
