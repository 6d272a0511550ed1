package database

import (
	"context"
	"errors"
	"strings"
)

// Class is the recovery strategy for a connection failure.
type Class int

const (
	// ClassFatal aborts the negotiation immediately.
	ClassFatal Class = iota

	// ClassReselect means the database is missing, access was denied, or the
	// login failed; the operator is offered a different database.
	ClassReselect

	// ClassTransient means the failure may clear on retry.
	ClassTransient
)

func (c Class) String() string {
	switch c {
	case ClassReselect:
		return "reselect"
	case ClassTransient:
		return "transient"
	default:
		return "fatal"
	}
}

// Driver error text fragments, matched case-insensitively. Substring matching
// against driver messages is fragile, so the tables live here and nowhere
// else; control flow never inspects error text directly.
var (
	reselectFragments = []string{
		"cannot open database",
		"4060",
		"login failed",
		"login error",
		"28000",
		"access denied",
		"access is denied",
		"does not exist",
	}

	transientFragments = []string{
		"network",
		"timeout",
		"timed out",
		"connection refused",
		"connection reset",
		"connection was closed",
		"no such host",
		"dial tcp",
		"broken pipe",
		"server is unavailable",
		"unable to open tcp connection",
		"i/o error",
	}
)

// Classify maps a session-open failure to its recovery strategy. Context
// cancellation is always fatal; anything matching neither fragment table is
// unclassified and therefore fatal.
func Classify(err error) Class {
	if err == nil {
		return ClassFatal
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassFatal
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range reselectFragments {
		if strings.Contains(msg, fragment) {
			return ClassReselect
		}
	}
	for _, fragment := range transientFragments {
		if strings.Contains(msg, fragment) {
			return ClassTransient
		}
	}
	return ClassFatal
}
