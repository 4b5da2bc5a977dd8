package app

import (
	"errors"

	"github.com/alexanderramin/irrigo/internal/progress"
)

type RequestErrorCode string

const (
	ErrInvalidInput       RequestErrorCode = "INVALID_INPUT"
	ErrInvalidDate        RequestErrorCode = "INVALID_DATE"
	ErrInvalidWeekIndex   RequestErrorCode = "INVALID_WEEK_INDEX"
	ErrInvalidMonth       RequestErrorCode = "INVALID_MONTH"
	ErrNotSubActivity     RequestErrorCode = "NOT_SUB_ACTIVITY"
	ErrMissingSubActivity RequestErrorCode = "MISSING_SUB_ACTIVITY"
	ErrEntryKeyMismatch   RequestErrorCode = "ENTRY_KEY_MISMATCH"
	ErrProjectNotActive   RequestErrorCode = "PROJECT_NOT_ACTIVE"
	ErrInvalidImport      RequestErrorCode = "INVALID_IMPORT"
)

// RequestError is a caller mistake that should reach the user verbatim.
type RequestError struct {
	Code    RequestErrorCode
	Message string
}

func (e *RequestError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func NewRequestError(code RequestErrorCode, message string) *RequestError {
	return &RequestError{Code: code, Message: message}
}

// AsRequestError converts err into a *RequestError when it is one, or when
// it carries an engine validation error.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	if ve, ok := progress.AsValidationError(err); ok {
		return &RequestError{Code: validationCodes[ve.Kind], Message: ve.Error()}, true
	}
	return nil, false
}

var validationCodes = map[progress.ValidationKind]RequestErrorCode{
	progress.KindInvalidWeekIndex:   ErrInvalidWeekIndex,
	progress.KindInvalidMonth:       ErrInvalidMonth,
	progress.KindMissingSubActivity: ErrMissingSubActivity,
	progress.KindEntryKeyMismatch:   ErrEntryKeyMismatch,
	progress.KindInvalidDate:        ErrInvalidDate,
}
