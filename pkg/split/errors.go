package split

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownModel is returned for model identifiers that are not one of
// Models. Passing one is a programming error rather than bad user input.
var ErrUnknownModel = errors.New("unknown split model")

// ValidationError is a single violated rule of a configuration.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors is the list of every rule a configuration violates.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

func (e *ValidationErrors) add(field, format string, args ...interface{}) {
	*e = append(*e, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// InsufficientContributorsError is returned when there is nobody to share
// the fee with, or when every contribution weight is zero.
type InsufficientContributorsError struct {
	Reason string
}

func (e *InsufficientContributorsError) Error() string {
	return "insufficient contributors: " + e.Reason
}

// ConfigurationMismatchError is returned when a configuration and the
// active contributors disagree so that shares would not total 100%.
type ConfigurationMismatchError struct {
	// Unmatched lists the configuration references with no contributor.
	Unmatched []string
	Reason    string
}

func (e *ConfigurationMismatchError) Error() string {
	if len(e.Unmatched) == 0 {
		return "configuration mismatch: " + e.Reason
	}
	return fmt.Sprintf("configuration mismatch: %s: %s", e.Reason, strings.Join(e.Unmatched, ", "))
}

// RoundingInvariantViolation signals that a calculated distribution failed
// its own consistency check. It is a defect, never a user error.
type RoundingInvariantViolation struct {
	Detail string
}

func (e *RoundingInvariantViolation) Error() string {
	return "rounding invariant violation: " + e.Detail
}

// IsUserError reports whether err is a configuration or input problem the
// caller can correct.
func IsUserError(err error) bool {
	var (
		verrs ValidationErrors
		ins   *InsufficientContributorsError
		mis   *ConfigurationMismatchError
	)
	return errors.As(err, &verrs) || errors.As(err, &ins) || errors.As(err, &mis)
}
