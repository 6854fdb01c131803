// Package storage persists completed download artifacts and produces the
// public URL they are served from.
package storage

import "context"

// Backend stores a finished transfer under its final filename. Store
// consumes the temp file: after a successful call the temp path no
// longer exists.
type Backend interface {
	// Store relocates the file at tempPath to public storage as filename
	// and returns the URL it is reachable at.
	Store(ctx context.Context, tempPath, filename string) (string, error)

	// Remove deletes a stored artifact. Removing a missing artifact is
	// not an error.
	Remove(ctx context.Context, filename string) error
}
