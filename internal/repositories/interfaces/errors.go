package interfaces

import "errors"

var (
	// ErrConditionFailed means a conditional write matched no document. The
	// caller re-reads to decide between not-found and conflict.
	ErrConditionFailed = errors.New("repository: write precondition not met")

	// ErrDuplicateKey is returned when a unique index rejects an insert.
	ErrDuplicateKey = errors.New("repository: duplicate key")
)
