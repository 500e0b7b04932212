package trainer

import (
	"errors"
	"fmt"
)

// computeError marks a forward/backward failure (shape mismatch, bad
// labels). Always fatal to the run: a corrupted gradient step must not
// propagate into later epochs' parameters.
type computeError struct {
	op  string
	err error
}

func (e computeError) Error() string { return e.op + ": " + e.err.Error() }
func (e computeError) Unwrap() error { return e.err }

func wrapCompute(op string, err error) error { return computeError{op: op, err: err} }

// IsCompute reports whether err is a runtime compute error.
func IsCompute(err error) bool {
	var ce computeError
	return errors.As(err, &ce)
}

var errEmptyBatch = errors.New("empty batch output")

func errLabelCount(got, want int) error {
	return fmt.Errorf("label count %d != batch size %d", got, want)
}

func errLabelRange(label, classes int) error {
	return fmt.Errorf("label %d out of range for %d classes", label, classes)
}

func errUnknownPhase(phase string) error {
	return fmt.Errorf("unknown phase %q", phase)
}
