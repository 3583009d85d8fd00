package errors

import (
	"errors"
)

// As finds the first *Error in err's chain.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is forwards to the standard library so callers need a single errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func find(err error) (*Error, bool) {
	var e *Error
	if err == nil || !errors.As(err, &e) {
		return nil, false
	}
	return e, true
}

// GetCode returns the code of the outermost *Error. A nil error is OK and a
// foreign error is INTERNAL.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	if e, ok := find(err); ok {
		return e.Code
	}
	return CodeInternal
}

// GetMeta returns the metadata of the outermost *Error, or nil.
func GetMeta(err error) map[string]any {
	if e, ok := find(err); ok {
		return e.Meta
	}
	return nil
}

// GetMessage returns the caller facing message without the cause chain.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// HasCode reports whether err carries code.
func HasCode(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// Code predicates, false for nil
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }
func IsInvalidArgument(err error) bool { return HasCode(err, CodeInvalidArgument) }
func IsAlreadyExists(err error) bool { return HasCode(err, CodeAlreadyExists) }
func IsInternal(err error) bool { return HasCode(err, CodeInternal) }
func IsUnavailable(err error) bool { return HasCode(err, CodeUnavailable) }
func IsFailedPrecondition(err error) bool { return HasCode(err, CodeFailedPrecondition) }
func IsAborted(err error) bool { return HasCode(err, CodeAborted) }
func IsDataLoss(err error) bool { return HasCode(err, CodeDataLoss) }
func IsCanceled(err error) bool { return HasCode(err, CodeCanceled) }
