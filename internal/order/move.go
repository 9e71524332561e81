package order

import (
	"fmt"

	"folio/internal/model"
)

// Neighbor finds the record to trade places with when moving id one step in dir.
//
// Adjacency is defined by the display order for mode, restricted to records whose category equals
// the target's. from and to are persisted indices. ok is false when id is absent or has no
// same-category neighbour in that direction.
func Neighbor[T model.Record[T]](seq []T, mode model.SortMode, id int, dir model.Direction) (from, to int, ok bool) {
	perm, _ := Resolve(seq, mode)

	p := -1
	for i, idx := range perm {
		if seq[idx].RecordID() == id {
			p = i
			break
		}
	}
	if p < 0 {
		return 0, 0, false
	}

	cat := seq[perm[p]].RecordCategory()
	switch dir {
	case model.Previous:
		for q := p - 1; q >= 0; q-- {
			if seq[perm[q]].RecordCategory() == cat {
				return perm[p], perm[q], true
			}
		}
	case model.Next:
		for q := p + 1; q < len(perm); q++ {
			if seq[perm[q]].RecordCategory() == cat {
				return perm[p], perm[q], true
			}
		}
	}
	return 0, 0, false
}

// Move returns a copy of seq with id swapped against its same-category neighbour in dir.
// When there is nothing to swap with, the copy equals seq and moved is false.
func Move[T model.Record[T]](seq []T, mode model.SortMode, id int, dir model.Direction) (out []T, moved bool) {
	out = append([]T(nil), seq...)
	from, to, ok := Neighbor(seq, mode, id, dir)
	if !ok {
		return out, false
	}
	out[from], out[to] = out[to], out[from]
	return out, true
}

// Swap returns a copy of seq with the records a and b exchanged in persisted order.
func Swap[T model.Record[T]](seq []T, a, b int) ([]T, error) {
	ia := IndexOf(seq, a)
	if ia < 0 {
		return nil, fmt.Errorf("%w: id %d", model.ErrNotFound, a)
	}
	ib := IndexOf(seq, b)
	if ib < 0 {
		return nil, fmt.Errorf("%w: id %d", model.ErrNotFound, b)
	}
	out := append([]T(nil), seq...)
	out[ia], out[ib] = out[ib], out[ia]
	return out, nil
}

// Reorder places the records named by ids first, in that order, followed by every record not
// named, in their previous relative order. Unknown and repeated ids are ignored.
func Reorder[T model.Record[T]](seq []T, ids []int) []T {
	used := make([]bool, len(seq))
	out := make([]T, 0, len(seq))
	for _, id := range ids {
		for i := range seq {
			if !used[i] && seq[i].RecordID() == id {
				used[i] = true
				out = append(out, seq[i])
				break
			}
		}
	}
	for i := range seq {
		if !used[i] {
			out = append(out, seq[i])
		}
	}
	return out
}
