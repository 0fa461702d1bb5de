package asciiframe

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrNotBuilt is returned by Render when Build has not succeeded.
	ErrNotBuilt = errors.New("asciiframe: Render called before Build")
	// ErrNotRendered is returned by Reconstruct before any canvas exists.
	ErrNotRendered = errors.New("asciiframe: canvases not rendered")
)

// InputError reports an unreadable source image or font.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %q: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// SizeError reports a grid that cannot hold the requested bands.
type SizeError struct {
	Reason string
	// Grid is the cell grid (cols, rows) that was derived, if any.
	Grid image.Point
	// Need is the number of rings requested, Have the number available.
	Need, Have int
}

func (e *SizeError) Error() string {
	if e.Need > 0 {
		return fmt.Sprintf("size: %s (grid %dx%d, need %d rings, have %d)",
			e.Reason, e.Grid.X, e.Grid.Y, e.Need, e.Have)
	}
	return fmt.Sprintf("size: %s (grid %dx%d)", e.Reason, e.Grid.X, e.Grid.Y)
}

// ParameterError reports an option outside its valid range.
type ParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

// CompositingError reports a canvas or mask whose dimensions do not match
// the frame. It indicates a defect upstream, never bad input.
type CompositingError struct {
	Stage     string
	Want, Got image.Point
}

func (e *CompositingError) Error() string {
	return fmt.Sprintf("compositing %s: size mismatch, want %s got %s", e.Stage, e.Want, e.Got)
}
