package recommend

import (
	"context"
	"fmt"

	"github.com/agentx-labs/uiscout/internal/registry"
	"go.uber.org/zap"
)

// Lister is the part of the registry client a RegistrySource needs.
type Lister interface {
	ListComponents(ctx context.Context, registryName string) ([]registry.ComponentItem, *registry.Resolution, error)
}

// RegistrySource loads the catalog from the default registry followed by the
// named registries, in the given order. Registries are fetched one after the
// other, so the merged order never depends on response timing.
type RegistrySource struct {
	lister      Lister
	registries  []string
	logger      *zap.Logger
	resolutions []registry.Resolution
}

// NewRegistrySource builds a source over the default registry plus names.
func NewRegistrySource(l Lister, names []string, logger *zap.Logger) *RegistrySource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrySource{lister: l, registries: names, logger: logger}
}

// Catalog implements Source. A failing default registry fails the call;
// failing named registries are logged and skipped.
func (s *RegistrySource) Catalog(ctx context.Context) ([]registry.ComponentItem, error) {
	s.resolutions = nil

	items, _, err := s.lister.ListComponents(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing default registry: %w", err)
	}

	for _, name := range s.registries {
		if registry.NormalizeRegistryName(name) == registry.DefaultRegistryName {
			continue
		}
		more, res, err := s.lister.ListComponents(ctx, name)
		if err != nil {
			s.logger.Warn("skipping registry", zap.String("registry", name), zap.Error(err))
			continue
		}
		if res != nil {
			s.resolutions = append(s.resolutions, *res)
		}
		items = append(items, more...)
	}
	return items, nil
}

// Resolutions returns the named registries reached by the last Catalog call.
func (s *RegistrySource) Resolutions() []registry.Resolution {
	return s.resolutions
}
