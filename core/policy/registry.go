package policy

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Registry holds the current policy set and reloads it from a Source.
// Concurrent reloads share one load.
type Registry struct {
	source Source
	logger *zap.Logger

	mu       sync.RWMutex
	current  Set
	loadedAt time.Time
	sf       singleflight.Group
}

// NewRegistry creates an empty registry over source.
func NewRegistry(source Source, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		source:  source,
		logger:  logger,
		current: Set{},
	}
}

// NewStaticRegistry creates a registry serving a fixed set, without a source.
func NewStaticRegistry(set Set) *Registry {
	r := NewRegistry(nil, nil)
	r.current = set.Clone()
	r.loadedAt = time.Now()
	return r
}

// Current returns a copy of the loaded policies.
func (r *Registry) Current() Set {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Clone()
}

// LoadedAt returns when the current set was loaded; zero before the first load.
func (r *Registry) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}

// Reload fetches the policies from the source and swaps them in. On failure
// the previous set stays in place.
func (r *Registry) Reload(ctx context.Context) (Set, error) {
	if r.source == nil {
		return r.Current(), nil
	}

	result, err, shared := r.sf.Do("reload", func() (interface{}, error) {
		set, err := r.source.Load(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.current = set
		r.loadedAt = time.Now()
		r.mu.Unlock()

		r.logger.Info("Layer policies loaded",
			zap.String("source", r.source.Name()),
			zap.Int("layers", len(set)),
		)
		return set, nil
	})
	if err != nil {
		r.logger.Warn("Layer policy reload failed", zap.String("source", r.source.Name()), zap.Error(err))
		return nil, err
	}
	if shared {
		r.logger.Debug("Layer policy reload shared with concurrent caller")
	}

	return result.(Set).Clone(), nil
}
