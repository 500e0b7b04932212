package checkpoint

import "errors"

// ioError marks a failed checkpoint/score read or write. Fatal for the
// operation; callers decide whether the run continues (a failed
// epoch-boundary save does, a failed initial weights load does not).
type ioError struct {
	op  string
	err error
}

func (e ioError) Error() string { return e.op + ": " + e.err.Error() }
func (e ioError) Unwrap() error { return e.err }

func wrapIO(op string, err error) error { return ioError{op: op, err: err} }

// IsIO reports whether err is a checkpoint I/O error.
func IsIO(err error) bool {
	var ie ioError
	return errors.As(err, &ie)
}
