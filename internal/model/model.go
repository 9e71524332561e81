package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID is a record identifier.
//
// Data files written by older versions of the site may carry ids as strings ("3"), so decoding
// accepts both JSON numbers and numeric strings. Anything else decodes as 0 (unidentified).
type ID int

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	*id = ID(parseLooseInt(s))
	return nil
}

func parseLooseInt(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
		return int(f)
	}
	return 0
}

// ParseID parses a user-supplied record id.
func ParseID(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrInvalidInput, s)
	}
	return n, nil
}

// InputID validates an id taken from a user-supplied document. A missing, null or blank value
// reports ok=false. Anything else that is not an integer >= 1 is ErrInvalidInput; unlike
// UnmarshalJSON, nothing is coerced.
func InputID(v any) (id int, ok bool, err error) {
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return 0, false, nil
		}
		n, err := ParseID(x)
		return n, err == nil, err
	case json.Number:
		n, err := ParseID(x.String())
		return n, err == nil, err
	case float64:
		if x != math.Trunc(x) || x < 1 || x > math.MaxInt32 {
			return 0, false, fmt.Errorf("%w: invalid id %v", ErrInvalidInput, x)
		}
		return int(x), true, nil
	case int:
		if x < 1 {
			return 0, false, fmt.Errorf("%w: invalid id %d", ErrInvalidInput, x)
		}
		return x, true, nil
	case int64:
		if x < 1 || x > math.MaxInt32 {
			return 0, false, fmt.Errorf("%w: invalid id %d", ErrInvalidInput, x)
		}
		return int(x), true, nil
	case ID:
		if x < 1 {
			return 0, false, fmt.Errorf("%w: invalid id %d", ErrInvalidInput, int(x))
		}
		return int(x), true, nil
	default:
		return 0, false, fmt.Errorf("%w: invalid id %v", ErrInvalidInput, v)
	}
}

// Record is the constraint shared by every record kind kept in an ordered store.
// Implementations use value receivers; WithID returns a modified copy.
type Record[T any] interface {
	RecordID() int
	WithID(id int) T
	RecordCategory() string
	RecordDate() string
	RecordLabel() string
}

// CategoryEntry is one entry of a category registry. ID mirrors the entry's position
// (1..N) and is rewritten after every registry change.
type CategoryEntry struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Names returns registry names in registry order, skipping blanks.
func Names(reg []CategoryEntry) []string {
	out := make([]string, 0, len(reg))
	for _, c := range reg {
		if c.Name == "" {
			continue
		}
		out = append(out, c.Name)
	}
	return out
}
