package irkeys

import "errors"

// Drop reasons. None of them is fatal; the frame is discarded and decoding
// carries on with the next header. They can be checked with errors.Is.
var (
	// ErrTiming is returned when an interval falls outside every tolerance band.
	ErrTiming = errors.New("irkeys: interval outside tolerance")

	// ErrChecksum is returned when a complete frame fails its complement check.
	ErrChecksum = errors.New("irkeys: complement check failed")

	// ErrUnmapped marks a valid frame whose code has no key.
	ErrUnmapped = errors.New("irkeys: unmapped code")

	// ErrDebounced marks a key that arrived inside the quiet window.
	ErrDebounced = errors.New("irkeys: debounced")
)
