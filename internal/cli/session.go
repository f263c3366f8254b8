package cli

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/agentx-labs/uiscout/internal/branding"
	"github.com/agentx-labs/uiscout/internal/catalog"
	"github.com/agentx-labs/uiscout/internal/config"
	"github.com/agentx-labs/uiscout/internal/logging"
	"github.com/agentx-labs/uiscout/internal/regcache"
	"github.com/agentx-labs/uiscout/internal/registry"
	"go.uber.org/zap"
)

// sessionOptions is everything a command needs to reach registries.
type sessionOptions struct {
	RegistryURL   string
	IndexName     string
	Timeout       time.Duration
	ProjectDir    string
	ProjectConfig string
	CacheFile     string
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// session bundles the collaborators of one CLI invocation.
type session struct {
	client  *registry.Client
	cache   *regcache.Store
	manager *catalog.Manager
	logger  *zap.Logger
}

func newSession(opts sessionOptions) *session {
	logger := logging.OrNop(opts.Logger)
	cache := regcache.New(opts.CacheFile, regcache.WithLogger(logger))
	manager := catalog.NewManager()

	clientOpts := []registry.Option{
		registry.WithDefaultRegistry(opts.RegistryURL),
		registry.WithIndexName(opts.IndexName),
		registry.WithTimeout(opts.Timeout),
		registry.WithProject(opts.ProjectDir, opts.ProjectConfig),
		registry.WithKnownRegistries(cache.URLs()),
		registry.WithEnricher(manager),
		registry.WithLogger(logger),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, registry.WithHTTPClient(opts.HTTPClient))
	}

	return &session{
		client:  registry.New(clientOpts...),
		cache:   cache,
		manager: manager,
		logger:  logger,
	}
}

// openSession builds a session from the loaded configuration and global flags.
func openSession(stderr io.Writer) *session {
	if stderr == nil {
		stderr = os.Stderr
	}
	return newSession(sessionOptions{
		RegistryURL:   config.Get(config.KeyRegistryURL),
		IndexName:     config.Get(config.KeyRegistryIndex),
		Timeout:       config.Timeout(),
		ProjectDir:    projectDir,
		ProjectConfig: config.Get(config.KeyProjectConfig),
		CacheFile:     config.Get(config.KeyCacheFile),
		Logger:        logging.New(stderr, verbose),
	})
}

// record stores a successfully reached registry. Cache failures are logged
// and never fail the command that produced the resolution.
func (s *session) record(res *registry.Resolution) {
	if res == nil {
		return
	}
	if _, err := s.cache.Add(res.Name, res.URL, "", res.Verified); err != nil {
		s.logger.Warn("could not record registry", zap.String("registry", res.Name), zap.Error(err))
	}
}

// installer returns the configured install command settings.
func installer() registry.Installer {
	in := registry.DefaultInstaller
	in.Package = branding.InstallerPackage()
	if r := config.Get(config.KeyRunner); r != "" {
		in.Runner = r
	}
	if v := config.Get(config.KeyShadcnVersion); v != "" {
		in.Version = v
	}
	return in
}
