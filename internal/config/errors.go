package config

import (
	"errors"
	"fmt"
)

// configError marks an invalid or unknown configuration option. It is
// always fatal before the run starts.
type configError struct{ msg string }

func (e configError) Error() string { return "config: " + e.msg }

func errorf(format string, args ...any) error {
	return configError{msg: fmt.Sprintf(format, args...)}
}

// Errorf builds a config error for other packages that fail at
// configuration-resolution time (registry lookups, optimizer kinds).
func Errorf(format string, args ...any) error { return errorf(format, args...) }

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool {
	var ce configError
	return errors.As(err, &ce)
}
