package main

import (
    "errors"
    "fmt"
)

// Errors returned while resolving and commanding outlets.  Check them with
// errors.Is; a *HardwareWriteError matches ErrHardwareWriteFailed.
var (
    // ErrMissingParameter is returned when the id query parameter is absent.
    ErrMissingParameter = errors.New("outlet: missing id parameter")

    // ErrMalformedParameter is returned when id is not a non-negative integer.
    ErrMalformedParameter = errors.New("outlet: malformed id parameter")

    // ErrUnknownOutlet is returned when no outlet has the requested id.
    ErrUnknownOutlet = errors.New("outlet: unknown id")

    // ErrHardwareWriteFailed is returned when the pin driver rejects a write.
    ErrHardwareWriteFailed = errors.New("outlet: hardware write failed")
)

// HardwareWriteError records which outlet and pin failed and why.  The
// cause is kept for logging and never sent to clients.
type HardwareWriteError struct {
    ID   uint
    Pin  int
    High bool
    Err  error
}

func (e *HardwareWriteError) Error() string {
    level := "low"
    if e.High {
        level = "high"
    }
    return fmt.Sprintf("outlet %d: set pin %d %s: %v", e.ID, e.Pin, level, e.Err)
}

func (e *HardwareWriteError) Unwrap() error { return e.Err }

// Is reports ErrHardwareWriteFailed as a match so callers need not type
// assert.
func (e *HardwareWriteError) Is(target error) bool {
    return target == ErrHardwareWriteFailed
}

// isInvalidID reports whether err belongs to the group of errors that the
// client sees as "Invalid id!".
func isInvalidID(err error) bool {
    return errors.Is(err, ErrMissingParameter) ||
        errors.Is(err, ErrMalformedParameter) ||
        errors.Is(err, ErrUnknownOutlet)
}
