package mfs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("file does not exist")
	ErrExist       = errors.New("file already exists")
	ErrNotDir      = errors.New("not a directory")
	ErrIsDir       = errors.New("is a directory")
	ErrInvalidPath = errors.New("invalid path")
	// ErrCorruptBlock is returned when a stored block does not hash to its CID
	// or can not be decoded as a tree node.
	ErrCorruptBlock = errors.New("corrupt block")
)

// FSError records a failed tree operation and the path it failed on.
type FSError struct {
	Op   string
	Path string
	Err  error
}

func (e *FSError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FSError) Unwrap() error {
	return e.Err
}

// opError labels err with op. When err already carries a path, that path is
// kept since it points at the component that actually failed.
func opError(op, path string, err error) error {
	var fe *FSError
	if errors.As(err, &fe) {
		return &FSError{Op: op, Path: fe.Path, Err: fe.Err}
	}
	return &FSError{Op: op, Path: path, Err: err}
}
