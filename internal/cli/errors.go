package cli

import (
	"fmt"

	"folio/internal/model"
)

// argError reports a positional argument that could not be parsed.
type argError struct {
	name  string
	value string
	err   error
}

func (e argError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.name, e.value, e.err)
}

func (e argError) Unwrap() error { return e.err }

func parseIDArg(name, s string) (int, error) {
	id, err := model.ParseID(s)
	if err != nil {
		return 0, argError{name: name, value: s, err: model.ErrInvalidInput}
	}
	return id, nil
}
