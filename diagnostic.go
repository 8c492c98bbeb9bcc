// Copyright (C) 2025 The phan authors. All Rights Reserved.

package phan

import "fmt"

// Severity classifies the weight of a Diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (v Severity) String() string {
	if v == Warning {
		return "warning"
	}
	return "error"
}

// A Diagnostic records a problem found while scanning or parsing source text.
// Diagnostics are values reported alongside a parse result; they are never
// delivered as errors, and a parse that produces diagnostics still produces a
// tree.
type Diagnostic struct {
	Severity Severity
	Message  string
	Location Location
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Location.First.Line, d.Location.First.Column, d.Severity, d.Message)
}
