package registry

import (
	"context"
	"slices"
	"sync"

	"github.com/NVIDIA/shellpack/pkg/bundler/result"
	"github.com/NVIDIA/shellpack/pkg/bundler/settings"
	"github.com/NVIDIA/shellpack/pkg/bundler/types"
)

// Strategy produces the artifacts of one package type.
type Strategy interface {
	// Type returns the package type this strategy produces.
	Type() types.PackageType

	// Bundle builds the package. Dependencies are obtained through the
	// resolver, never by calling another strategy directly.
	Bundle(ctx context.Context, s *settings.Settings, r Resolver) ([]result.Artifact, error)
}

// Resolver runs a dependency strategy within the current pipeline run and
// returns its artifacts. A dependency runs at most once per run.
type Resolver interface {
	Resolve(ctx context.Context, pt types.PackageType) ([]result.Artifact, error)
}

// Registry maps package types to strategies with thread-safe operations.
type Registry struct {
	strategies map[types.PackageType]Strategy
	mu         sync.RWMutex
}

// NewRegistry creates a registry holding the given strategies.
// A later strategy replaces an earlier one of the same type.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{
		strategies: make(map[types.PackageType]Strategy, len(strategies)),
	}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a strategy.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.Type()] = s
}

// Get retrieves a strategy by type.
func (r *Registry) Get(pt types.PackageType) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[pt]
	return s, ok
}

// List returns the registered types sorted by short name.
func (r *Registry) List() []types.PackageType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]types.PackageType, 0, len(r.strategies))
	for k := range r.strategies {
		list = append(list, k)
	}
	slices.Sort(list)
	return list
}
