package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error is a failure of the command together with the exit code it implies.
type Error struct {
	Err      error
	ExitCode int
}

func Err(code int, err error) *Error {
	return &Error{Err: err, ExitCode: code}
}

// Usage is an Error carrying the usage text, led by the reason if one is given.
func Usage(code int, formatAndArgs ...interface{}) *Error {
	var err error
	if len(formatAndArgs) > 0 {
		format := formatAndArgs[0].(string)
		err = errors.Newf("error: %v\n\n%v", fmt.Sprintf(format, formatAndArgs[1:]...), shortUsage)
	} else {
		err = errors.Newf("%v\n%v", shortUsage, usage)
	}
	return &Error{Err: err, ExitCode: code}
}

func (c *Error) Error() string {
	return c.Err.Error()
}

func (c *Error) Unwrap() error {
	return c.Err
}
