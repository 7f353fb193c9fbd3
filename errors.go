package gluon

import (
	"errors"
	"fmt"

	"github.com/lucidj/go-gluon/ir"
)

var (
	// ErrUnrepresentable is returned when no serializer applies to a value.
	ErrUnrepresentable = errors.New("value is not representable")

	// ErrUnresolvable is returned when a resolution pass makes no progress.
	ErrUnresolvable = errors.New("unresolvable references")

	ErrBadLiteral  = errors.New("bad literal")
	ErrReservedKey = errors.New("reserved property name")
	ErrBadName     = errors.New("bad property name")
	ErrReadOnly    = errors.New("instance is read only")
	ErrMaxPasses   = errors.New("too many resolution passes")
)

// MarshalError represents an error while building a tree from a value.
type MarshalError struct {
	FieldPath string
	Message   string
	Err       error
}

func (e *MarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("marshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("marshal error: %s", e.Message)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}

// UnmarshalError represents an error while resolving a tree into values.
type UnmarshalError struct {
	FieldPath string
	Message   string
	Err       error
}

func (e *UnmarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("unmarshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("unmarshal error: %s", e.Message)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}

// ClassNotFoundError occupies the slot of an object whose class is not
// registered.  Other objects in the same document are unaffected.
type ClassNotFoundError struct {
	Ref ir.ObjectRef
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class not found: %s", e.Ref)
}

// ObjectError occupies the slot of an object whose serializer failed.
type ObjectError struct {
	Ref ir.ObjectRef
	Err error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("object %s: %v", e.Ref, e.Err)
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}
