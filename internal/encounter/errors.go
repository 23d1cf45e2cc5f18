package encounter

import "errors"

// Errors.
var (
	// ErrInvalidArgument reports unparseable numeric or enum input. The
	// command dispatcher halts the command that produced it.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfRange reports a variable slot outside the store's bounds.
	ErrOutOfRange = errors.New("out of range")
	// ErrPersistenceCorruption reports a malformed persisted section.
	// ImportState recovers from it locally; it never reaches callers.
	ErrPersistenceCorruption = errors.New("persisted encounter section is corrupt")
)
