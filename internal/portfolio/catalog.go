package portfolio

import (
	"folio/internal/model"
	"folio/internal/order"
)

// Entry is a record reduced to what list UIs need. Record holds the full typed value.
type Entry struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category,omitempty"`
	Date     string `json:"date,omitempty"`
	Record   any    `json:"record"`
}

type EntryGroup struct {
	Category string  `json:"category"`
	Entries  []Entry `json:"entries"`
}

type Listing struct {
	Kind   model.Kind     `json:"kind"`
	SortBy model.SortMode `json:"sort_by"`
	Groups []EntryGroup   `json:"groups"`
	// Loose holds records without a category. Groups never contain them unless the listing
	// fell back to a single Uncategorized group.
	Loose []Entry `json:"loose,omitempty"`
	Total int     `json:"total"`
}

// Catalog is the kind-agnostic face of a Shelf, for callers that handle every kind the same way
// (the TUI and the publisher).
type Catalog interface {
	Kind() model.Kind
	Listing(admin bool) Listing
	Lookup(id int) (Entry, error)
	SortModes() (public, admin model.SortMode)
	SetSort(public, admin string) error
	Move(id int, dir model.Direction) (bool, error)
	CategoriesUsed() []string
	Registry() []model.CategoryEntry
	ApplyCategory(a order.RegistryAction) ([]model.CategoryEntry, error)
}

func entryOf[T model.Record[T]](r T) Entry {
	return Entry{
		ID:       r.RecordID(),
		Label:    r.RecordLabel(),
		Category: r.RecordCategory(),
		Date:     r.RecordDate(),
		Record:   r,
	}
}

// Listing groups the public view, or the admin view in its stored admin sort mode.
func (s *Shelf[T]) Listing(admin bool) Listing {
	public, adminMode := s.settings.SortModes(s.kind)
	mode := public
	if admin {
		mode = adminMode
	}
	v := s.view(mode)

	out := Listing{Kind: s.kind, SortBy: v.SortBy, Groups: make([]EntryGroup, 0, len(v.Groups)), Total: len(v.Records)}
	for _, g := range v.Groups {
		eg := EntryGroup{Category: g.Category, Entries: make([]Entry, 0, len(g.Records))}
		for _, r := range g.Records {
			eg.Entries = append(eg.Entries, entryOf(r))
		}
		out.Groups = append(out.Groups, eg)
	}
	if len(v.Groups) == 1 && v.Groups[0].Category == order.Uncategorized && len(v.Groups[0].Records) == len(v.Records) {
		return out
	}
	for _, r := range v.Records {
		if r.RecordCategory() == "" {
			out.Loose = append(out.Loose, entryOf(r))
		}
	}
	return out
}

func (s *Shelf[T]) Lookup(id int) (Entry, error) {
	r, err := s.Records.Get(id)
	if err != nil {
		return Entry{}, err
	}
	return entryOf(r), nil
}
