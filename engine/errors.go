// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "fmt"

// Kind tags every error the engine returns.
type Kind int

// error kinds
const (
	// InvalidArgument marks an out-of-bounds index, non-finite number or
	// violated range in caller input.
	InvalidArgument Kind = iota
	// ConfigConflict marks an internally inconsistent configuration, e.g.
	// Swc+Sor >= 1.
	ConfigConflict
	// NotInitialized marks a step attempted before required geometry or
	// properties were configured.
	NotInitialized
	// SolverDidNotConverge marks a pressure-solve failure (CG stall).
	SolverDidNotConverge
	// StabilityViolation marks an exhausted sub-stepping attempt.
	StabilityViolation
	// InternalInvariant marks a condition that valid input cannot trigger;
	// its presence indicates a bug in the engine.
	InternalInvariant
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case ConfigConflict:
		return "ConfigConflict"
	case NotInitialized:
		return "NotInitialized"
	case SolverDidNotConverge:
		return "SolverDidNotConverge"
	case StabilityViolation:
		return "StabilityViolation"
	case InternalInvariant:
		return "InternalInvariant"
	default:
		return "Unknown"
	}
}

// Error is the engine's error value: a short kind tag plus a human-readable
// message. Errors are returned as values; they never unwind through the
// engine.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

func errf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the Kind of err, or InternalInvariant if err was not
// produced by this package.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return InternalInvariant
}
