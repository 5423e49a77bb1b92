package guess

import (
	"errors"
	"fmt"
)

// ErrConfiguration is returned when the rule tables cannot be built.
var ErrConfiguration = errors.New("configuration error")

// Error reports an internal failure while guessing one input.
type Error struct {
	Input   string
	Options Options
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("guess %q (options %+v): %v", e.Input, e.Options, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
