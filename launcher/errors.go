package launcher

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when nothing exists at the resolved binary path.
// No process is spawned in that case.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("binary not found at %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// SpawnError is returned when the binary exists but the OS refused to start it.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitError is returned when the server exited with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exited with code %d", e.Code)
}

// SignalError is returned when the server was terminated by a signal.
type SignalError struct {
	Signal string
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("was killed with signal %s", e.Signal)
}

// ExitCode maps a Run result to the launcher's own exit status: 0 for nil,
// the server's code for an ExitError, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}
