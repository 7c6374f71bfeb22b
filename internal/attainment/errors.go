// Package attainment turns raw assessment marks into CO and PO/PSO attainment.
//
// Everything here is pure: callers pass a snapshot of an offering and receive a
// report. Nothing is read from or written to storage.
package attainment

import "errors"

var (
	// ErrConfigMismatch marks an item whose question/part or CO tag is not configured.
	ErrConfigMismatch = errors.New("config mismatch")
	// ErrInsufficientData marks a CO with no usable marks in any family.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidWeightConfig aborts a computation whose weights or marks make the output meaningless.
	ErrInvalidWeightConfig = errors.New("invalid weight config")
)
