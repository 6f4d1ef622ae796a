package export

import (
	"errors"
	"fmt"
)

// ErrNoCompatibleRuntime is matched by errors.Is when a node that needs a
// runtime has no compatible interpreter. The export is aborted.
var ErrNoCompatibleRuntime = errors.New("no compatible runtime")

// NoCompatibleRuntimeError names the node no interpreter could be found for.
type NoCompatibleRuntimeError struct {
	Address string
	Err     error
}

func (e *NoCompatibleRuntimeError) Error() string {
	return fmt.Sprintf("unable to find suitable interpreter for %s: %v", e.Address, e.Err)
}

func (e *NoCompatibleRuntimeError) Unwrap() error {
	return e.Err
}

// Is makes every NoCompatibleRuntimeError match ErrNoCompatibleRuntime.
func (e *NoCompatibleRuntimeError) Is(target error) bool {
	return target == ErrNoCompatibleRuntime
}
