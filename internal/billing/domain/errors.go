package billing

import "errors"

var (
	// ErrNilMapping is returned when an aggregator is built without a mapping.
	ErrNilMapping = errors.New("billing: nil area mapping")
	// ErrNegativeRate is returned when a configured rate is negative.
	ErrNegativeRate = errors.New("billing: negative rate")
	// ErrUnmappedScenarios is returned when summaries are requested while
	// mapping gaps remain unresolved.
	ErrUnmappedScenarios = errors.New("billing: unmapped scenarios present")
	// ErrNoEvents is returned when summaries are requested for an empty event set.
	ErrNoEvents = errors.New("billing: no usage events")
)
