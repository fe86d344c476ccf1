package schemas

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a string type used for structured failure reporting. Using a
// custom type ensures only predefined constants can appear where a code is
// expected, so callers can branch on kind instead of parsing messages.
type ErrorCode string

const (
	// ErrCodeConfiguration marks an invalid or empty locator spec. Fatal to
	// that call; never retried.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeElementNotFound means every applicable strategy was exhausted.
	ErrCodeElementNotFound ErrorCode = "ELEMENT_NOT_FOUND"
	// ErrCodeElementNotInteractable means the element was found but is not
	// visible, enabled, or clickable.
	ErrCodeElementNotInteractable ErrorCode = "ELEMENT_NOT_INTERACTABLE"
	// ErrCodeInputVerificationFailed means typed text did not stick after
	// one clear-and-retry.
	ErrCodeInputVerificationFailed ErrorCode = "INPUT_VERIFICATION_FAILED"
	// ErrCodeActionTimeout means the element went stale or the page became
	// unresponsive mid-action.
	ErrCodeActionTimeout ErrorCode = "ACTION_TIMEOUT"
	// ErrCodeStaleElement is internal: a handle was detached and the engine
	// re-ran the cascade. It escalates only if the re-resolution fails.
	ErrCodeStaleElement ErrorCode = "STALE_ELEMENT_RERESOLVED"
)

// StrategyAttempt records one strategy's outcome for diagnostics, so a
// caller can judge whether retrying with a different spec is worthwhile.
type StrategyAttempt struct {
	Strategy   Strategy `json:"strategy"`
	BestScore  float64  `json:"best_score"`
	Candidates int      `json:"candidates"`
}

// InteractionError is the structured failure type for every discovery and
// execution error the core surfaces.
type InteractionError struct {
	Code ErrorCode
	Msg  string
	// Attempted carries the strategy cascade's diagnostics for
	// ELEMENT_NOT_FOUND failures.
	Attempted []StrategyAttempt
	Err       error
}

func (e *InteractionError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if len(e.Attempted) > 0 {
		parts := make([]string, 0, len(e.Attempted))
		for _, a := range e.Attempted {
			parts = append(parts, fmt.Sprintf("%s=%.2f", a.Strategy, a.BestScore))
		}
		b.WriteString(" (attempted: ")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *InteractionError) Unwrap() error { return e.Err }

// NewError builds an InteractionError with a formatted message.
func NewError(code ErrorCode, format string, args ...interface{}) *InteractionError {
	return &InteractionError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// WrapError attaches a code to an underlying cause.
func WrapError(code ErrorCode, err error, format string, args ...interface{}) *InteractionError {
	return &InteractionError{Code: code, Msg: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf extracts the ErrorCode from err, or "" when err is not an
// InteractionError.
func CodeOf(err error) ErrorCode {
	var ie *InteractionError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
