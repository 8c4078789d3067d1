package model

import "fmt"

// IOError reports a failure to open, read or write a file.
type IOError struct {
	Op   string // "open", "read", "create", "write", "close"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
