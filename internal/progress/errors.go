package progress

import (
	"errors"
	"fmt"
)

// ValidationKind classifies a rejected engine input.
type ValidationKind string

const (
	KindInvalidWeekIndex   ValidationKind = "invalid_week_index"
	KindInvalidMonth       ValidationKind = "invalid_month"
	KindMissingSubActivity ValidationKind = "missing_sub_activity"
	KindEntryKeyMismatch   ValidationKind = "entry_key_mismatch"
	KindInvalidDate        ValidationKind = "invalid_date"
)

// ValidationError reports input the engine refuses to compute over.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
}

// AsValidationError unwraps err into a *ValidationError when it carries one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func invalid(kind ValidationKind, field, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}
