package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is matched by every *MalformedInputError.
	ErrMalformedInput = errors.New("malformed input")
	// ErrImageEmbed marks a signature image that could not be decoded or embedded.
	ErrImageEmbed = errors.New("image embed failed")
)

// MalformedInputError reports a field that could not be parsed into the type a
// document needs. Field is path-qualified, e.g. "materials[2].amount".
type MalformedInputError struct {
	Field string
	Value any
	Err   error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed input: %s = %#v: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("malformed input: %s = %#v", e.Field, e.Value)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }
