// Package store persists record collections, category registries and settings as JSON slot
// files in a data directory, plus an optional sqlite journal of mutations.
//
// Every slot is read fresh on each operation and replaced atomically on write. Each Collection,
// Registry and Settings value serializes its own load-modify-persist cycles with a mutex; there
// is no cross-process locking and no rollback across slots.
package store

import (
	"fmt"
	"sync"

	"folio/internal/model"
	"folio/internal/order"

	"go.uber.org/zap"
)

type Options struct {
	Logger  *zap.Logger
	Journal *Journal
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Collection is the ordered store for one record kind. The JSON array order on disk is the
// manual order.
type Collection[T model.Record[T]] struct {
	kind    model.Kind
	path    string
	log     *zap.Logger
	journal *Journal

	mu sync.Mutex
}

func NewCollection[T model.Record[T]](kind model.Kind, path string, opts Options) *Collection[T] {
	return &Collection[T]{
		kind:    kind,
		path:    path,
		log:     opts.logger().With(zap.String("kind", string(kind))),
		journal: opts.Journal,
	}
}

func (c *Collection[T]) Kind() model.Kind { return c.kind }
func (c *Collection[T]) Path() string     { return c.path }

// Load returns the persisted sequence. It never fails: a missing or unreadable slot yields an
// empty sequence.
func (c *Collection[T]) Load() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *Collection[T]) load() []T {
	var seq []T
	if err := readSlot(c.path, &seq); err != nil {
		if isNotExist(err) {
			c.log.Debug("collection slot missing", zap.String("path", c.path))
		} else {
			c.log.Warn("collection slot unreadable, using empty sequence", zap.String("path", c.path), zap.Error(err))
		}
		return []T{}
	}
	if seq == nil {
		seq = []T{}
	}
	return seq
}

func (c *Collection[T]) save(seq []T) error {
	if err := writeSlot(c.path, seq); err != nil {
		return fmt.Errorf("%s: %w", c.kind, err)
	}
	return nil
}

func (c *Collection[T]) Get(id int) (T, error) {
	seq := c.Load()
	if i := order.IndexOf(seq, id); i >= 0 {
		return seq[i], nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %d", model.ErrNotFound, c.kind.Singular(), id)
}

// Add appends rec at the tail. With explicitID the record takes that id, failing with
// ErrDuplicateID when another record already holds it; otherwise it gets max(id)+1.
func (c *Collection[T]) Add(rec T, explicitID *int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	seq := c.load()
	id := order.NextID(seq)
	if explicitID != nil {
		if *explicitID < 1 {
			return zero, fmt.Errorf("%w: id must be >= 1, got %d", model.ErrInvalidInput, *explicitID)
		}
		if order.IDInUse(seq, *explicitID, -1) {
			return zero, fmt.Errorf("%w: %s %d", model.ErrDuplicateID, c.kind.Singular(), *explicitID)
		}
		id = *explicitID
	}
	rec = rec.WithID(id)
	if err := c.save(append(seq, rec)); err != nil {
		return zero, err
	}
	c.journal.record(c.kind, id, EventRecordAdd, rec)
	return rec, nil
}

// Update applies a JSON merge patch to the record with id. The record keeps its position. A patch
// "id" must be an integer >= 1 (ErrInvalidInput otherwise); a null or blank one keeps the current
// id. Changing to an id another record already uses is ErrDuplicateID.
func (c *Collection[T]) Update(id int, patch map[string]any) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	seq := c.load()
	i := order.IndexOf(seq, id)
	if i < 0 {
		return zero, fmt.Errorf("%w: %s %d", model.ErrNotFound, c.kind.Singular(), id)
	}
	newID := id
	if raw, present := patch["id"]; present {
		n, ok, err := model.InputID(raw)
		if err != nil {
			return zero, err
		}
		if ok {
			newID = n
		}
	}
	next, err := MergePatch(seq[i], patch)
	if err != nil {
		return zero, err
	}
	next = next.WithID(newID)
	if next.RecordID() != id && order.IDInUse(seq, next.RecordID(), i) {
		return zero, fmt.Errorf("%w: %s %d", model.ErrDuplicateID, c.kind.Singular(), next.RecordID())
	}

	out := append([]T(nil), seq...)
	out[i] = next
	if err := c.save(out); err != nil {
		return zero, err
	}
	c.journal.record(c.kind, next.RecordID(), EventRecordUpdate, patch)
	return next, nil
}

// Delete removes the record with id. Ids are never compacted.
func (c *Collection[T]) Delete(id int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	seq := c.load()
	i := order.IndexOf(seq, id)
	if i < 0 {
		return zero, fmt.Errorf("%w: %s %d", model.ErrNotFound, c.kind.Singular(), id)
	}
	removed := seq[i]
	out := append(append([]T(nil), seq[:i]...), seq[i+1:]...)
	if err := c.save(out); err != nil {
		return zero, err
	}
	c.journal.record(c.kind, id, EventRecordDelete, removed)
	return removed, nil
}

// Swap exchanges the persisted positions of a and b.
func (c *Collection[T]) Swap(a, b int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	out, err := order.Swap(c.load(), a, b)
	if err != nil {
		return fmt.Errorf("%s: %w", c.kind, err)
	}
	if err := c.save(out); err != nil {
		return err
	}
	c.journal.record(c.kind, a, EventRecordSwap, map[string]int{"a": a, "b": b})
	return nil
}

// Move swaps id with its same-category neighbour in the display order for mode. moved is false,
// and nothing is written, when there is no such neighbour.
func (c *Collection[T]) Move(mode model.SortMode, id int, dir model.Direction) (moved bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out, moved := order.Move(c.load(), mode, id, dir)
	if !moved {
		return false, nil
	}
	if err := c.save(out); err != nil {
		return false, err
	}
	c.journal.record(c.kind, id, EventRecordMove, map[string]string{"direction": dir.String(), "mode": string(mode)})
	return true, nil
}

// Reorder puts the named ids first in the given order, followed by the rest in their previous
// relative order.
func (c *Collection[T]) Reorder(ids []int) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := order.Reorder(c.load(), ids)
	if err := c.save(out); err != nil {
		return nil, err
	}
	c.journal.record(c.kind, 0, EventRecordReorder, map[string][]int{"ids": ids})
	return out, nil
}
