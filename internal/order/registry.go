package order

import (
	"fmt"
	"strings"

	"folio/internal/model"

	"golang.org/x/text/cases"
)

type RegistryOp string

const (
	OpAdd    RegistryOp = "add"
	OpEdit   RegistryOp = "edit"
	OpDelete RegistryOp = "delete"
	OpMove   RegistryOp = "move"
)

func ParseRegistryOp(s string) (RegistryOp, error) {
	switch op := RegistryOp(strings.ToLower(strings.TrimSpace(s))); op {
	case OpAdd, OpEdit, OpDelete, OpMove:
		return op, nil
	default:
		return "", fmt.Errorf("%w: unknown category action %q (expected add|edit|delete|move)", model.ErrInvalidInput, s)
	}
}

// RegistryAction describes one change to a category registry. Name is used by add/edit,
// ID by edit/delete/move and Direction by move.
type RegistryAction struct {
	Op        RegistryOp
	ID        int
	Name      string
	Direction model.Direction
}

// ApplyRegistryAction applies a to a copy of reg and renumbers ids 1..N in the resulting order.
//
// add rejects names that already exist under case folding. edit renames without that guard, so
// two entries may end up sharing a name; grouping tolerates it. Unknown ids are no-ops.
func ApplyRegistryAction(reg []model.CategoryEntry, a RegistryAction) ([]model.CategoryEntry, error) {
	out := append([]model.CategoryEntry(nil), reg...)
	name := strings.TrimSpace(a.Name)

	switch a.Op {
	case OpAdd:
		if name == "" {
			return nil, fmt.Errorf("%w: category name is empty", model.ErrInvalidInput)
		}
		fold := cases.Fold()
		want := fold.String(name)
		for _, c := range out {
			if fold.String(c.Name) == want {
				return nil, fmt.Errorf("%w: category %q already exists", model.ErrDuplicateName, c.Name)
			}
		}
		hi := 0
		for _, c := range out {
			if int(c.ID) > hi {
				hi = int(c.ID)
			}
		}
		out = append(out, model.CategoryEntry{ID: model.ID(hi + 1), Name: name})

	case OpEdit:
		if name == "" {
			return nil, fmt.Errorf("%w: category name is empty", model.ErrInvalidInput)
		}
		if i := registryIndex(out, a.ID); i >= 0 {
			out[i].Name = name
		}

	case OpDelete:
		if i := registryIndex(out, a.ID); i >= 0 {
			out = append(out[:i], out[i+1:]...)
		}

	case OpMove:
		if a.Direction != model.Previous && a.Direction != model.Next {
			return nil, fmt.Errorf("%w: missing move direction", model.ErrInvalidInput)
		}
		i := registryIndex(out, a.ID)
		if i < 0 {
			break
		}
		if j := i + int(a.Direction); j >= 0 && j < len(out) {
			out[i], out[j] = out[j], out[i]
		}

	default:
		return nil, fmt.Errorf("%w: unknown category action %q", model.ErrInvalidInput, a.Op)
	}

	Renumber(out)
	return out, nil
}

// Renumber rewrites ids to match positions 1..N.
func Renumber(reg []model.CategoryEntry) {
	for i := range reg {
		reg[i].ID = model.ID(i + 1)
	}
}

func registryIndex(reg []model.CategoryEntry, id int) int {
	for i, c := range reg {
		if int(c.ID) == id {
			return i
		}
	}
	return -1
}
