package gammadust

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when array lengths or axes disagree.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrNumericDomain is returned for parameters outside the physical domain
	// (non-positive sizes or energies, non-finite values).
	ErrNumericDomain = errors.New("numeric domain error")
	// ErrDiverged is returned by the fitter when the loss becomes non-finite.
	ErrDiverged = errors.New("fit diverged")
)

// ShapeError reports which axis of which operation disagreed.
type ShapeError struct {
	Op, Axis  string
	Want, Got int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: %s has length %d, want %d", e.Op, ErrShapeMismatch, e.Axis, e.Got, e.Want)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

func shapeErr(op, axis string, want, got int) error {
	return &ShapeError{Op: op, Axis: axis, Want: want, Got: got}
}

func domainErr(op, format string, a ...interface{}) error {
	return fmt.Errorf("%s: %w: %s", op, ErrNumericDomain, fmt.Sprintf(format, a...))
}
