// Package timeparse resolves structured time descriptors produced by the
// language classifier into concrete future instants. A descriptor is a
// (kind, value) pair where the value grammar depends on the kind:
//
//   - Delay: a duration string like "0y0m0d2h30m0s" (fixed field order,
//     each field optional), or the sentinel "undefined" when the classifier
//     could not determine a time.
//   - Absolute: a "YYYY-MM-DD HH:MM" literal in the local zone.
//   - Relative: "TIME:HH:MM", "WEEKDAY:<name>" or
//     "WEEKDAY_AND_TIME:<name>:HH:MM".
//
// The classifier output is untrusted: Decode rejects everything that does
// not fit one of the shapes above.
package timeparse

import (
	"errors"
	"fmt"
)

// Rejection reasons returned by Decode and Resolve. They are values, not
// faults: the caller maps each to a distinct user-facing message.
var (
	// ErrNoTimeSpecified means the descriptor is structurally valid but
	// carries no time (the classifier answered "undefined").
	ErrNoTimeSpecified = errors.New("no time specified")

	// ErrInPast means the descriptor resolved to an instant that is not
	// strictly in the future.
	ErrInPast = errors.New("resolved time is in the past")

	// ErrMalformedDescriptor means the descriptor could not be parsed.
	ErrMalformedDescriptor = errors.New("malformed time descriptor")
)

// Kind discriminates the descriptor payload grammar.
type Kind string

const (
	// KindDelay is a duration offset from now.
	KindDelay Kind = "delay"
	// KindAbsolute is a fixed calendar instant.
	KindAbsolute Kind = "time"
	// KindRelative is a weekday/time-of-day expression resolved against today.
	KindRelative Kind = "relative"
)

// UndefinedValue is the sentinel the classifier emits when the request
// contains no usable time. It is only valid for KindDelay.
const UndefinedValue = "undefined"

// Descriptor is a decoded time descriptor.
type Descriptor struct {
	Kind  Kind
	Value string
}

// Undefined reports whether the descriptor carries no time at all.
func (d Descriptor) Undefined() bool {
	return d.Value == UndefinedValue
}

// Decode validates the raw (time_type, time_value) pair coming from the
// classifier and returns a typed Descriptor. Unknown kinds and the
// "undefined" sentinel on non-delay kinds are rejected with
// ErrMalformedDescriptor.
func Decode(timeType, timeValue string) (Descriptor, error) {
	kind := Kind(timeType)
	switch kind {
	case KindDelay:
	case KindAbsolute, KindRelative:
		if timeValue == UndefinedValue {
			return Descriptor{}, fmt.Errorf("%w: %q is not a valid %s value", ErrMalformedDescriptor, timeValue, timeType)
		}
	default:
		return Descriptor{}, fmt.Errorf("%w: unknown time type %q", ErrMalformedDescriptor, timeType)
	}

	return Descriptor{Kind: kind, Value: timeValue}, nil
}
