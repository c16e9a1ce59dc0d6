package upload

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies what went wrong with an upload attempt. Every rejected
// upload carries exactly one kind, so the UI can pick a single
// human-readable message per attempt.
type Kind string

const (
	// KindValidation covers everything caught before any network
	// activity: missing file, missing asset id, disallowed media type,
	// oversized payload. Never retried.
	KindValidation Kind = "validation"
	// KindAuthorization means the blob store denied the write.
	KindAuthorization Kind = "authorization"
	// KindTransport covers connectivity, CORS and network-class
	// failures. Worth a manual retry; the pipeline never retries itself.
	KindTransport Kind = "transport"
	// KindIntegrity means the store reported a corrupted transfer or a
	// checksum mismatch.
	KindIntegrity Kind = "integrity"
	// KindUnknown passes the collaborator's raw message through.
	KindUnknown Kind = "unknown"
)

// Error is the single classified error an upload attempt rejects with.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return "photo upload failed: " + e.Message()
}

// Message renders the user-presentable reason for this failure.
func (e *Error) Message() string {
	switch e.Kind {
	case KindValidation:
		return e.Reason
	case KindAuthorization:
		return "permission denied, please check your authentication"
	case KindTransport:
		return "network error, please check your connection and try again"
	case KindIntegrity:
		return "file corruption detected, please try uploading again"
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		if e.Reason != "" {
			return e.Reason
		}
		return "unknown error occurred, please try again"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

// Classify maps a collaborator failure into exactly one taxonomy kind.
// Store adapters may pre-classify by returning an *Error themselves, in
// which case it is passed through untouched; anything else is matched on
// its message and falls back to the raw passthrough kind.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "access denied", "permission denied", "unauthorized", "forbidden", "signature"):
		return &Error{Kind: KindAuthorization, Err: err}
	case containsAny(msg, "checksum", "digest", "corrupt"):
		return &Error{Kind: KindIntegrity, Err: err}
	case containsAny(msg, "cors", "network", "connection refused", "connection reset", "timeout", "no such host", "broken pipe", "eof"):
		return &Error{Kind: KindTransport, Err: err}
	}
	return &Error{Kind: KindUnknown, Err: err}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
