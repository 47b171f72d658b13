package oracle

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout matches any *TimeoutError via errors.Is.
var ErrTimeout = errors.New("oracle: timed out")

// ErrMalformedResponse matches any *ResponseError via errors.Is.
var ErrMalformedResponse = errors.New("oracle: malformed response")

// TimeoutError reports that the oracle did not answer within its deadline.
type TimeoutError struct {
	Provider string
	After    time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("oracle: no response within %s", e.After)
	}
	return fmt.Sprintf("%s oracle: no response within %s", e.Provider, e.After)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// ResponseError reports oracle output that cannot be interpreted.
type ResponseError struct {
	Reason string
	// Raw is a prefix of the offending text, kept for logging.
	Raw string
	Err error
}

func (e *ResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed oracle response: %s: %v", e.Reason, e.Err)
	}
	return "malformed oracle response: " + e.Reason
}

func (e *ResponseError) Unwrap() error { return e.Err }

func (e *ResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// Excerpt trims s to at most n bytes for inclusion in a ResponseError.
func Excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
