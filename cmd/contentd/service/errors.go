package service

import "errors"

// Sentinel errors for the content store. Handlers translate these to HTTP
// statuses with errors.Is; the store wraps them with operation context.
var (
	// ErrNotFound means no document in the listing matched the slug.
	ErrNotFound = errors.New("document not found")

	// ErrProtected means the target slug is seed content and may not be
	// written or deleted.
	ErrProtected = errors.New("protected content")

	// ErrBucketUnavailable means a bucket listing, put, or delete call
	// failed.
	ErrBucketUnavailable = errors.New("bucket unavailable")

	// ErrContentFetch means the key appeared in the listing but its content
	// could not be retrieved. Kept distinct from ErrNotFound so operators
	// can tell "missing" apart from "unreachable".
	ErrContentFetch = errors.New("content fetch failed")

	// ErrInvalidInput means the caller supplied a missing or malformed
	// slug, prefix, or body.
	ErrInvalidInput = errors.New("invalid input")
)
