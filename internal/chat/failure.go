package chat

import (
	"errors"
	"strings"
)

var (
	// ErrMissingKey means no API key is configured.
	ErrMissingKey = errors.New("chat API key is not set")
	// ErrQuota means the service refused for quota reasons.
	ErrQuota = errors.New("chat quota exceeded")
	// ErrSafety means the request or reply was blocked by a safety filter.
	ErrSafety = errors.New("blocked by SAFETY filter")
	// ErrNoReply means the service answered without text.
	ErrNoReply = errors.New("empty reply from chat service")
)

// Failure is the user-facing category of a chat error.
type Failure int

const (
	FailureOther Failure = iota
	FailureMissingKey
	FailureInvalidKey
	FailureQuota
	FailureSafety
)

// Classify maps an error from a Generator to a failure category. Errors
// that carry no sentinel are matched on the service's message text.
func Classify(err error) Failure {
	switch {
	case err == nil:
		return FailureOther
	case errors.Is(err, ErrMissingKey):
		return FailureMissingKey
	case errors.Is(err, ErrSafety):
		return FailureSafety
	case errors.Is(err, ErrQuota):
		return FailureQuota
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "API key") || strings.Contains(msg, "API_KEY_INVALID"):
		return FailureInvalidKey
	case strings.Contains(lower, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return FailureQuota
	case strings.Contains(msg, "SAFETY"):
		return FailureSafety
	default:
		return FailureOther
	}
}

// FailureMessage is the assistant reply shown for err.
func FailureMessage(err error) string {
	var text string
	switch Classify(err) {
	case FailureMissingKey:
		text = "Sorry, the assistant is not configured: set an API key to enable chat."
	case FailureInvalidKey:
		text = "Sorry, there is a problem with the API key. Please check the configuration."
	case FailureQuota:
		text = "Sorry, the API quota is used up. Please try again later."
	case FailureSafety:
		text = "Sorry, your question could not be processed because of the safety filter. Please try another question."
	default:
		text = "Sorry, something went wrong while processing your request."
	}
	return text + " Error: " + err.Error()
}
