package order

import "folio/internal/model"

// Uncategorized names the single fallback group emitted when neither the registry nor any
// record supplies a category name.
const Uncategorized = "Uncategorized"

type Group[T any] struct {
	Category string `json:"category"`
	Records  []T    `json:"records"`
}

// GroupByCategory partitions display (already in display order) into named groups.
//
// Group order is registry order followed by categories that only appear on records, in the
// order they are first seen in display. Matching is exact and case-sensitive. Records without a
// category belong to no group, unless there are no names at all, in which case every record lands
// in one Uncategorized group.
func GroupByCategory[T model.Record[T]](display []T, registry []model.CategoryEntry) []Group[T] {
	if len(display) == 0 {
		return []Group[T]{}
	}

	seen := map[string]bool{}
	names := make([]string, 0, len(registry))
	for _, name := range model.Names(registry) {
		// Registry edits are not guarded against duplicates; emit each name once so a record
		// never lands in two groups.
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	for _, name := range Categories(display) {
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	if len(names) == 0 {
		all := append([]T(nil), display...)
		return []Group[T]{{Category: Uncategorized, Records: all}}
	}

	byName := make(map[string][]T, len(names))
	for _, r := range display {
		c := r.RecordCategory()
		if c == "" {
			continue
		}
		byName[c] = append(byName[c], r)
	}

	out := make([]Group[T], 0, len(names))
	for _, name := range names {
		recs := byName[name]
		if recs == nil {
			recs = []T{}
		}
		out = append(out, Group[T]{Category: name, Records: recs})
	}
	return out
}

// Categories returns the distinct non-empty record categories in first-seen order.
func Categories[T model.Record[T]](seq []T) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range seq {
		c := r.RecordCategory()
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
