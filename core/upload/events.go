package upload

// EventKind tags the variants of the upload result stream.
type EventKind string

const (
	EventProgress EventKind = "progress"
	EventSuccess  EventKind = "success"
	EventFailure  EventKind = "failure"
)

// Event is one element of the discriminated result stream produced by
// Watch. A stream carries zero or more Progress events with
// non-decreasing percentages, then exactly one terminal Success or
// Failure event, then closes.
type Event struct {
	Kind EventKind

	// Pct is set on Progress events, 0..100.
	Pct int
	// URL is set on the Success event: the durable reference URL.
	URL string
	// Err is set on the Failure event, always an *Error.
	Err error
}
