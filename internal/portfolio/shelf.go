package portfolio

import (
	"encoding/json"
	"fmt"
	"strings"

	"folio/internal/model"
	"folio/internal/order"
	"folio/internal/store"
)

// Shelf ties one record kind to its registry and the shared settings.
type Shelf[T model.Record[T]] struct {
	kind       model.Kind
	Records    *store.Collection[T]
	Categories *store.Registry
	settings   *store.Settings

	// prepare rewrites an incoming document before it is decoded; nil for kinds without rules.
	prepare func(doc map[string]any, isNew bool)
}

// View is the grouped listing of one kind in one sort mode.
type View[T any] struct {
	Kind       model.Kind            `json:"kind"`
	SortBy     model.SortMode        `json:"sort_by"`
	Records    []T                   `json:"records"`
	Groups     []order.Group[T]      `json:"groups"`
	Categories []model.CategoryEntry `json:"categories"`
}

func (s *Shelf[T]) Kind() model.Kind { return s.kind }

func (s *Shelf[T]) view(mode model.SortMode) View[T] {
	display, resolved := order.Display(s.Records.Load(), mode)
	reg := s.Categories.Load()
	return View[T]{
		Kind:       s.kind,
		SortBy:     resolved,
		Records:    display,
		Groups:     order.GroupByCategory(display, reg),
		Categories: reg,
	}
}

// PublicView lists records the way visitors see them.
func (s *Shelf[T]) PublicView() View[T] {
	public, _ := s.settings.SortModes(s.kind)
	return s.view(public)
}

// ViewAs lists records in mode without touching the stored sort settings.
func (s *Shelf[T]) ViewAs(mode model.SortMode) View[T] {
	return s.view(mode)
}

// AdminView lists records for the admin panel. A non-empty requested mode is validated and
// remembered as the admin sort mode; otherwise the stored admin mode is used.
func (s *Shelf[T]) AdminView(requested string) (View[T], error) {
	if strings.TrimSpace(requested) == "" {
		_, admin := s.settings.SortModes(s.kind)
		return s.view(admin), nil
	}
	mode, err := model.ParseSortMode(requested)
	if err != nil {
		return View[T]{}, err
	}
	if err := s.settings.SetAdminSort(s.kind, mode); err != nil {
		return View[T]{}, err
	}
	return s.view(mode), nil
}

func (s *Shelf[T]) SortModes() (public, admin model.SortMode) {
	return s.settings.SortModes(s.kind)
}

// SetSort stores the public and/or admin sort mode; empty values are left unchanged.
func (s *Shelf[T]) SetSort(public, admin string) error {
	if strings.TrimSpace(public) != "" {
		m, err := model.ParseSortMode(public)
		if err != nil {
			return err
		}
		if err := s.settings.SetPublicSort(s.kind, m); err != nil {
			return err
		}
	}
	if strings.TrimSpace(admin) != "" {
		m, err := model.ParseSortMode(admin)
		if err != nil {
			return err
		}
		if err := s.settings.SetAdminSort(s.kind, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shelf[T]) Get(id int) (T, error) { return s.Records.Get(id) }

// Move shifts id one step within its category, using the admin display order. A move that
// changes anything switches the public view to manual so visitors see the new order.
func (s *Shelf[T]) Move(id int, dir model.Direction) (bool, error) {
	_, admin := s.settings.SortModes(s.kind)
	moved, err := s.Records.Move(admin, id, dir)
	if err != nil || !moved {
		return moved, err
	}
	if err := s.settings.SetPublicSort(s.kind, model.SortManual); err != nil {
		return true, fmt.Errorf("record moved but public sort not updated: %w", err)
	}
	return true, nil
}

// AddJSON decodes a record document and appends it. An "id" in the document, or explicitID,
// requests that exact id.
func (s *Shelf[T]) AddJSON(b []byte, explicitID *int) (T, error) {
	var zero T
	doc := map[string]any{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return zero, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	if raw, present := doc["id"]; present {
		n, ok, err := model.InputID(raw)
		if err != nil {
			return zero, err
		}
		if ok && explicitID == nil {
			explicitID = &n
		}
	}
	rec, err := s.decode(doc, true)
	if err != nil {
		return zero, err
	}
	return s.Records.Add(rec, explicitID)
}

// Add appends rec, applying the same preparation as AddJSON.
func (s *Shelf[T]) Add(rec T, explicitID *int) (T, error) {
	var zero T
	if s.prepare == nil {
		return s.Records.Add(rec, explicitID)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return zero, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return zero, err
	}
	if rec, err = s.decode(doc, true); err != nil {
		return zero, err
	}
	return s.Records.Add(rec, explicitID)
}

func (s *Shelf[T]) decode(doc map[string]any, isNew bool) (T, error) {
	var out T
	if s.prepare != nil {
		s.prepare(doc, isNew)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return out, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return out, nil
}

func (s *Shelf[T]) Update(id int, patch map[string]any) (T, error) {
	if s.prepare != nil {
		s.prepare(patch, false)
	}
	return s.Records.Update(id, patch)
}

func (s *Shelf[T]) Delete(id int) (T, error) { return s.Records.Delete(id) }

func (s *Shelf[T]) Swap(a, b int) error { return s.Records.Swap(a, b) }

func (s *Shelf[T]) Reorder(ids []int) ([]T, error) { return s.Records.Reorder(ids) }

// CategoriesUsed lists the distinct categories set on records, in persisted order.
func (s *Shelf[T]) CategoriesUsed() []string {
	return order.Categories(s.Records.Load())
}

func (s *Shelf[T]) Registry() []model.CategoryEntry { return s.Categories.Load() }

func (s *Shelf[T]) ApplyCategory(a order.RegistryAction) ([]model.CategoryEntry, error) {
	return s.Categories.Apply(a)
}
