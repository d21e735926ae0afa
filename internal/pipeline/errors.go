package pipeline

import (
	"errors"
	"fmt"
)

// Soft failures. Both signal "cannot generate for this region" and are
// retryable with a larger region; neither is a programming error.
var (
	// ErrInputUnavailable means the source produced no segments for the
	// requested bounding box.
	ErrInputUnavailable = errors.New("no road segments for region")

	// ErrNoCyclesFound means the traced junction graph has an empty cycle
	// space, so no polygons exist.
	ErrNoCyclesFound = errors.New("no cycles in road graph")
)

// GenerateError is the structured "cannot generate" result returned to the
// caller after all region retries are exhausted. RegionSize carries the last
// attempted bounding-box half-size in degrees, for retry policy.
type GenerateError struct {
	Err        error
	RegionSize float64
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("map generation failed (region half-size %g deg): %v", e.RegionSize, e.Err)
}

func (e *GenerateError) Unwrap() error {
	return e.Err
}
