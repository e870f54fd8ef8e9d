package automaton

import (
	"errors"
	"fmt"
)

// ErrMalformedDefinition is wrapped by every error returned while parsing an
// automaton definition. No partially built automaton is returned with it.
var ErrMalformedDefinition = errors.New("malformed automaton definition")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedDefinition, fmt.Sprintf(format, args...))
}
