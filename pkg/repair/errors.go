package repair

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySequence is returned when a sequence holds no decoded frame at all.
	ErrEmptySequence = errors.New("repair: empty sequence")

	// ErrUnresolvableGap is returned when a missing position has no present
	// frame in either direction. It only happens for an all-missing sequence.
	ErrUnresolvableGap = fmt.Errorf("%w: unresolvable gap", ErrEmptySequence)

	// ErrInvalidOptions is returned when Options fail validation.
	ErrInvalidOptions = errors.New("repair: invalid options")

	// ErrFrameSizeMismatch is returned when two frames to blend differ in size.
	ErrFrameSizeMismatch = errors.New("repair: frame size mismatch")
)
