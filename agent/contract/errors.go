package contract

import "errors"

var (
	// ErrConfiguration means a required credential or setting is missing
	// from the environment. An adapter reporting it is skipped, not fatal.
	ErrConfiguration = errors.New("missing configuration")

	// ErrTransport covers network/HTTP failures talking to a provider.
	ErrTransport = errors.New("provider transport failed")

	// ErrProvider means the provider responded but reported a domain-level
	// failure, or returned no usable records.
	ErrProvider = errors.New("provider reported failure")

	// ErrTimeout means a polling budget was exhausted before the provider
	// reached a terminal state.
	ErrTimeout = errors.New("provider run timed out")

	// ErrNotFound is returned by memory recall misses with no default.
	ErrNotFound = errors.New("key not found")

	// ErrIO covers disk read/write failures in the memory store and ledger.
	ErrIO = errors.New("disk io failed")

	// ErrAllSourcesFailed is the terminal orchestrator error once every
	// lead source in the fallback chain has failed.
	ErrAllSourcesFailed = errors.New("failed to retrieve leads from all available sources")

	ErrValidation = errors.New("validation failed")
)
