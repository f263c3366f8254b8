package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds every registry request.
	DefaultTimeout = 10 * time.Second
	// DefaultSearchLimit is used when SearchOptions.Limit is not positive.
	DefaultSearchLimit = 20

	defaultIndexName = "index"
	maxBodyBytes     = 16 << 20
	userAgent        = "uiscout"
)

// Client queries component registries.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	defaultURL string
	indexName  string
	projectDir string
	configFile string
	known      map[string]string
	enricher   Enricher
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithDefaultRegistry sets the URL template of the default registry.
func WithDefaultRegistry(template string) Option {
	return func(c *Client) {
		if template != "" {
			c.defaultURL = template
		}
	}
}

// WithIndexName sets the item name that addresses a registry's catalog.
func WithIndexName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.indexName = name
		}
	}
}

// WithProject sets the project directory and the components.json file name
// (relative to dir unless absolute).
func WithProject(dir, configFile string) Option {
	return func(c *Client) {
		if dir != "" {
			c.projectDir = dir
		}
		if configFile != "" {
			c.configFile = configFile
		}
	}
}

// WithKnownRegistries supplies name → URL templates consulted after the
// project config, typically the entries of the local registry cache.
func WithKnownRegistries(known map[string]string) Option {
	return func(c *Client) {
		c.known = known
	}
}

// WithEnricher sets the enricher applied to returned items.
func WithEnricher(e Enricher) Option {
	return func(c *Client) {
		c.enricher = e
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		defaultURL: "https://ui.shadcn.com/r/{name}.json",
		indexName:  defaultIndexName,
		projectDir: ".",
		configFile: "components.json",
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// endpoint is a resolved registry.
type endpoint struct {
	name      string
	template  string
	headers   map[string]string
	params    map[string]string
	isDefault bool
}

func (e endpoint) resolution() *Resolution {
	if e.isDefault {
		return nil
	}
	return &Resolution{Name: e.name, URL: e.template, Verified: true}
}

// resolve maps a registry name to an endpoint. The empty name and the
// default registry name resolve without touching the filesystem.
func (c *Client) resolve(name string) (endpoint, error) {
	name = strings.TrimSpace(name)
	if name == "" || NormalizeRegistryName(name) == DefaultRegistryName {
		return endpoint{name: DefaultRegistryName, template: c.defaultURL, isDefault: true}, nil
	}
	name = NormalizeRegistryName(name)

	cfg, err := c.loadProject()
	if err != nil {
		return endpoint{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if rc, ok := cfg.Lookup(name); ok {
		return endpoint{
			name:     name,
			template: rc.URL,
			headers:  expandEnv(rc.Headers),
			params:   expandEnv(rc.Params),
		}, nil
	}
	if u, ok := c.known[name]; ok && u != "" {
		return endpoint{name: name, template: u}, nil
	}

	if cfg == nil {
		return endpoint{}, fmt.Errorf("%w: registry %s requires %s in %s", ErrNoProjectConfig, name, c.configFile, c.projectDir)
	}
	return endpoint{}, fmt.Errorf("%w: registry %s is not configured in %s", ErrRegistryUnreachable, name, c.projectConfigPath())
}

// ListComponents returns the full catalog of the default registry (empty
// name) or of a named registry.
func (c *Client) ListComponents(ctx context.Context, registryName string) ([]ComponentItem, *Resolution, error) {
	ep, err := c.resolve(registryName)
	if err != nil {
		return nil, nil, err
	}

	body, status, err := c.fetch(ctx, ep, c.indexName, nil)
	if err != nil {
		return nil, nil, err
	}
	if status != http.StatusOK {
		return nil, nil, fmt.Errorf("%w: %s returned status %d", ErrRegistryUnreachable, ep.name, status)
	}

	items, _, err := decodeCatalog(body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrRegistryUnreachable, ep.name, err)
	}
	return c.finish(items, ep), ep.resolution(), nil
}

// SearchComponents delegates query matching to the registry. Registries that
// answer with a static catalog instead of a search envelope are filtered
// locally on name and description.
func (c *Client) SearchComponents(ctx context.Context, query, registryName string, opts SearchOptions) (*SearchResult, *Resolution, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil, fmt.Errorf("%w: search query must not be empty", ErrValidation)
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}

	ep, err := c.resolve(registryName)
	if err != nil {
		return nil, nil, err
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("offset", strconv.Itoa(opts.Offset))
	q.Set("limit", strconv.Itoa(opts.Limit))

	body, status, err := c.fetch(ctx, ep, c.indexName, q)
	if err != nil {
		return nil, nil, err
	}
	if status != http.StatusOK {
		return nil, nil, fmt.Errorf("%w: %s returned status %d", ErrRegistryUnreachable, ep.name, status)
	}

	items, page, err := decodeCatalog(body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrRegistryUnreachable, ep.name, err)
	}

	result := &SearchResult{}
	if page != nil {
		result.Items = items
		result.Pagination = *page
	} else {
		result.Items, result.Pagination = paginate(filterItems(items, query), opts)
	}
	result.Items = c.finish(result.Items, ep)
	return result, ep.resolution(), nil
}

// ViewComponent fetches one item. Namespaced names ("@acme/button") select
// the registry; plain names use the default registry.
func (c *Client) ViewComponent(ctx context.Context, name string) (*ComponentItem, *Resolution, error) {
	regName, itemName := SplitName(strings.TrimSpace(name))
	if itemName == "" {
		return nil, nil, fmt.Errorf("%w: component name must not be empty", ErrValidation)
	}

	ep, err := c.resolve(regName)
	if err != nil {
		return nil, nil, err
	}

	body, status, err := c.fetch(ctx, ep, itemName, nil)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, nil, fmt.Errorf("%w: %s in %s", ErrComponentNotFound, itemName, ep.name)
	case status != http.StatusOK:
		return nil, nil, fmt.Errorf("%w: %s returned status %d", ErrRegistryUnreachable, ep.name, status)
	}

	item, err := decodeItem(body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrRegistryUnreachable, ep.name, err)
	}
	if item.Name == "" {
		item.Name = itemName
	}
	out := c.finish([]ComponentItem{item}, ep)
	return &out[0], ep.resolution(), nil
}

// Examples returns demo items for a component: catalog entries of type
// registry:example or named <component>-demo / <component>-example /
// <component>-demo-*. When the catalog lists none, the <component>-demo
// item is fetched directly.
func (c *Client) Examples(ctx context.Context, name string) ([]ComponentItem, *Resolution, error) {
	regName, base := SplitName(strings.TrimSpace(name))
	if base == "" {
		return nil, nil, fmt.Errorf("%w: component name must not be empty", ErrValidation)
	}

	items, res, err := c.ListComponents(ctx, regName)
	if err != nil {
		return nil, nil, err
	}

	var examples []ComponentItem
	for _, it := range items {
		if isExampleOf(it, base) {
			examples = append(examples, it)
		}
	}
	if len(examples) > 0 {
		return examples, res, nil
	}

	demoName := base + "-demo"
	if regName != "" {
		demoName = regName + "/" + demoName
	}
	demo, res, err := c.ViewComponent(ctx, demoName)
	if err != nil {
		if errors.Is(err, ErrComponentNotFound) {
			return nil, nil, fmt.Errorf("%w: no examples for %s", ErrComponentNotFound, base)
		}
		return nil, nil, err
	}
	return []ComponentItem{*demo}, res, nil
}

func isExampleOf(it ComponentItem, base string) bool {
	n := strings.ToLower(it.Name)
	b := strings.ToLower(base)
	if n == b+"-demo" || n == b+"-example" || strings.HasPrefix(n, b+"-demo-") {
		return true
	}
	return it.Type == "registry:example" && strings.HasPrefix(n, b+"-")
}

// finish stamps the source registry and applies the enricher.
func (c *Client) finish(items []ComponentItem, ep endpoint) []ComponentItem {
	for i := range items {
		items[i].Registry = ep.name
		if c.enricher != nil {
			items[i] = c.enricher.Enrich(items[i])
		}
	}
	return items
}

// fetch performs a bounded GET against the registry URL for itemName. Only
// transport failures are returned as errors; HTTP statuses are left to the
// caller because 404 means different things per operation.
func (c *Client) fetch(ctx context.Context, ep endpoint, itemName string, query url.Values) ([]byte, int, error) {
	target, err := expandTemplate(ep.template, itemName, ep.params, query)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrRegistryUnreachable, ep.name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: creating request: %v", ErrRegistryUnreachable, ep.name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, v := range ep.headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("fetching registry resource",
		zap.String("registry", ep.name),
		zap.String("url", target))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrRegistryUnreachable, ep.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: reading response body: %v", ErrRegistryUnreachable, ep.name, err)
	}

	c.logger.Debug("registry response",
		zap.String("registry", ep.name),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	return body, resp.StatusCode, nil
}

// expandTemplate substitutes {name} in a registry URL template and merges
// extra query params. Templates without a placeholder are treated as a base
// URL and get "/<name>.json" appended.
func expandTemplate(template, itemName string, params map[string]string, query url.Values) (string, error) {
	var raw string
	if strings.Contains(template, "{name}") {
		raw = strings.ReplaceAll(template, "{name}", url.PathEscape(itemName))
	} else {
		raw = strings.TrimRight(template, "/") + "/" + url.PathEscape(itemName) + ".json"
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid registry URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported registry URL %q", raw)
	}
	if len(params) == 0 && len(query) == 0 {
		return u.String(), nil
	}

	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	for k, vs := range query {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func expandEnv(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = os.ExpandEnv(v)
	}
	return out
}

// filterItems applies the local fallback search: case-insensitive substring
// match on name, title or description.
func filterItems(items []ComponentItem, query string) []ComponentItem {
	q := strings.ToLower(query)
	var out []ComponentItem
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Title), q) ||
			strings.Contains(strings.ToLower(it.Description), q) {
			out = append(out, it)
		}
	}
	return out
}

func paginate(items []ComponentItem, opts SearchOptions) ([]ComponentItem, Pagination) {
	page := Pagination{Offset: opts.Offset, Limit: opts.Limit, Total: len(items)}
	if opts.Offset >= len(items) {
		return []ComponentItem{}, page
	}
	end := len(items)
	if opts.Limit < end-opts.Offset {
		end = opts.Offset + opts.Limit
	}
	page.HasMore = end < len(items)
	return items[opts.Offset:end], page
}
