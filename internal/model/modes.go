package model

import (
	"fmt"
	"strings"
)

type SortMode string

const (
	SortManual SortMode = "manual"
	SortByID   SortMode = "id"
	SortByDate SortMode = "date"
)

// ParseSortMode validates an explicitly requested sort mode.
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SortManual, SortByID, SortByDate:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown sort mode %q (expected manual|id|date)", ErrInvalidInput, s)
	}
}

// NormalizeSortMode maps stored values onto a known mode. Unknown or empty values become manual.
func NormalizeSortMode(s string) SortMode {
	m, err := ParseSortMode(s)
	if err != nil {
		return SortManual
	}
	return m
}

// SortModes lists the modes in the order UIs cycle through them.
func SortModes() []SortMode {
	return []SortMode{SortManual, SortByID, SortByDate}
}

type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

func (d Direction) String() string {
	if d == Previous {
		return "previous"
	}
	return "next"
}

// ParseDirection accepts previous/next plus the left/right and up/down aliases used by the admin UI.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "previous", "prev", "left", "up":
		return Previous, nil
	case "next", "right", "down":
		return Next, nil
	default:
		return 0, fmt.Errorf("%w: unknown direction %q (expected previous|next|left|right|up|down)", ErrInvalidInput, s)
	}
}

// Kind names a record collection.
type Kind string

const (
	KindProjects       Kind = "projects"
	KindSkills         Kind = "skills"
	KindCertifications Kind = "certifications"
)

func Kinds() []Kind {
	return []Kind{KindProjects, KindSkills, KindCertifications}
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown kind %q (expected projects|skills|certifications)", ErrInvalidInput, s)
}

// Singular is used to build settings keys such as "project_sort_by".
func (k Kind) Singular() string {
	return strings.TrimSuffix(string(k), "s")
}
