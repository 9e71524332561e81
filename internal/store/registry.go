package store

import (
	"fmt"
	"sync"

	"folio/internal/model"
	"folio/internal/order"

	"go.uber.org/zap"
)

// Registry is the category registry slot for one record kind. Its array order is the group
// order shown to visitors.
type Registry struct {
	kind    model.Kind
	path    string
	log     *zap.Logger
	journal *Journal

	mu sync.Mutex
}

func NewRegistry(kind model.Kind, path string, opts Options) *Registry {
	return &Registry{
		kind:    kind,
		path:    path,
		log:     opts.logger().With(zap.String("kind", string(kind)), zap.String("slot", "categories")),
		journal: opts.Journal,
	}
}

func (r *Registry) Kind() model.Kind { return r.kind }

// Load returns the registry, or an empty one when the slot is missing or unreadable.
func (r *Registry) Load() []model.CategoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *Registry) load() []model.CategoryEntry {
	var reg []model.CategoryEntry
	if err := readSlot(r.path, &reg); err != nil {
		if isNotExist(err) {
			r.log.Debug("registry slot missing", zap.String("path", r.path))
		} else {
			r.log.Warn("registry slot unreadable, using empty registry", zap.String("path", r.path), zap.Error(err))
		}
		return []model.CategoryEntry{}
	}
	if reg == nil {
		reg = []model.CategoryEntry{}
	}
	return reg
}

// Apply runs one registry action and persists the renumbered result, even when the action was a
// no-op, so stale ids on disk are repaired.
func (r *Registry) Apply(a order.RegistryAction) ([]model.CategoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out, err := order.ApplyRegistryAction(r.load(), a)
	if err != nil {
		return nil, err
	}
	if err := writeSlot(r.path, out); err != nil {
		return nil, fmt.Errorf("%s categories: %w", r.kind, err)
	}
	r.journal.record(r.kind, a.ID, EventCategoryChange, map[string]any{
		"action":    string(a.Op),
		"id":        a.ID,
		"name":      a.Name,
		"direction": int(a.Direction),
	})
	return out, nil
}
