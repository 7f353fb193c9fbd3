package ir

import (
	"errors"
)

var (
	errInternal = errors.New("internal error")

	ErrNotComplex   = errors.New("node has no object class")
	ErrRootEmbed    = errors.New("root cannot be embedded")
	ErrDuplicateRef = errors.New("duplicate reference id")
	ErrBadRef       = errors.New("bad reference id")
)
