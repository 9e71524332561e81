// Package order holds the ordering engine shared by every record kind: view resolution,
// category grouping, same-category moves and category registry maintenance.
//
// Everything here is a pure function over in-memory sequences. Persistence lives in
// internal/store, which calls into this package under its own lock.
package order

import (
	"sort"
	"strings"

	"folio/internal/model"
)

// Resolve returns the display permutation of seq for mode: perm[i] is the persisted index of the
// record shown at display position i. Unknown modes resolve as manual, and the mode actually
// applied is returned.
func Resolve[T model.Record[T]](seq []T, mode model.SortMode) ([]int, model.SortMode) {
	perm := make([]int, len(seq))
	for i := range perm {
		perm[i] = i
	}
	switch mode {
	case model.SortByID:
		sort.SliceStable(perm, func(i, j int) bool {
			return seq[perm[i]].RecordID() < seq[perm[j]].RecordID()
		})
	case model.SortByDate:
		// Newest first; missing dates compare lowest and therefore sink to the end.
		sort.SliceStable(perm, func(i, j int) bool {
			return strings.TrimSpace(seq[perm[i]].RecordDate()) > strings.TrimSpace(seq[perm[j]].RecordDate())
		})
	default:
		mode = model.SortManual
	}
	return perm, mode
}

// Display returns a copy of seq in display order for mode.
func Display[T model.Record[T]](seq []T, mode model.SortMode) ([]T, model.SortMode) {
	perm, resolved := Resolve(seq, mode)
	out := make([]T, len(perm))
	for i, p := range perm {
		out[i] = seq[p]
	}
	return out, resolved
}

// IndexOf returns the persisted index of the first record with id, or -1.
func IndexOf[T model.Record[T]](seq []T, id int) int {
	for i := range seq {
		if seq[i].RecordID() == id {
			return i
		}
	}
	return -1
}

// NextID returns max(ids)+1, or 1 for an empty sequence.
func NextID[T model.Record[T]](seq []T) int {
	hi := 0
	for i := range seq {
		if id := seq[i].RecordID(); id > hi {
			hi = id
		}
	}
	return hi + 1
}

// IDInUse reports whether id is used by a record other than the one at persisted index skip
// (pass -1 to check every record).
func IDInUse[T model.Record[T]](seq []T, id int, skip int) bool {
	for i := range seq {
		if i == skip {
			continue
		}
		if seq[i].RecordID() == id {
			return true
		}
	}
	return false
}
