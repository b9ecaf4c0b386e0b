package tokens

import "errors"

// Common credential store errors
var (
	// ErrNotAuthenticated indicates that no credentials exist for the user.
	// This is a normal "not yet authenticated" condition, not a storage fault.
	ErrNotAuthenticated = errors.New("user not authenticated")

	// ErrStoreCorrupt indicates that the credential store is unreadable.
	// Fatal at initialization, not recoverable per-request.
	ErrStoreCorrupt = errors.New("credential store corrupt")
)
