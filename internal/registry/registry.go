// Package registry holds the normalized tables of one session. It is an
// explicit context object with a create/clear/shutdown lifecycle, passed
// to callers rather than living as ambient global state.
package registry

import (
	"context"
	"sync"

	"sheetsense/domain/table"
	apperrors "sheetsense/internal/errors"
)

// Registry is a concurrency-safe store of processed tables plus the
// upload storage backing them.
type Registry struct {
	mu      sync.RWMutex
	tables  []*table.TableInfo
	storage *UploadStorage
}

// New creates an empty registry. Storage may be nil when uploads are not
// managed by this registry.
func New(storage *UploadStorage) *Registry {
	return &Registry{storage: storage}
}

// Add registers a processed table. A table with the same name replaces
// the earlier entry, matching re-upload semantics.
func (r *Registry) Add(info *table.TableInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.tables {
		if existing.Name == info.Name {
			r.tables[i] = info
			return
		}
	}
	r.tables = append(r.tables, info)
}

// List returns all registered tables in insertion order.
func (r *Registry) List() []*table.TableInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*table.TableInfo, len(r.tables))
	copy(out, r.tables)
	return out
}

// GetByName returns the table registered under the given name.
func (r *Registry) GetByName(name string) (*table.TableInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, info := range r.tables {
		if info.Name == name {
			return info, nil
		}
	}
	return nil, apperrors.NotFound("table " + name)
}

// Count returns the number of registered tables.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

// Clear drops every registered table and removes stored uploads. Called
// on new-upload sessions and on shutdown.
func (r *Registry) Clear(ctx context.Context) error {
	r.mu.Lock()
	r.tables = nil
	storage := r.storage
	r.mu.Unlock()

	if storage != nil {
		return storage.Clear(ctx)
	}
	return nil
}
