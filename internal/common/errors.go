// Package common defines sentinel errors shared by the glacierkeep packages.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Startup errors. Both abort the process before any command runs.
	ErrMalformedStore      = errors.New("malformed receipts file")
	ErrFutureSchemaVersion = errors.New("incompatible receipts file version")

	// Command selection / argument errors.
	ErrUsage          = errors.New("usage error")
	ErrUnknownCommand = errors.New("unknown command")

	// Per-file upload errors.
	ErrFileOpen = errors.New("failed to open file")
)
