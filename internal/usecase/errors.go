package usecase

import (
	"errors"
	"fmt"

	"transit-booking/internal/data/repository"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindInsufficientSeats
	KindConflict
	KindTimedOut
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInsufficientSeats:
		return "insufficient_seats"
	case KindConflict:
		return "conflict"
	case KindTimedOut:
		return "timed_out"
	default:
		return "internal_error"
	}
}

// Error is a domain rejection or fault returned by the booking core. Callers
// branch on Kind; Message is safe to show to the client. Retryable marks a
// lost race that a resubmission can win.
type Error struct {
	Kind      ErrorKind
	Message   string
	Err       error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func validationError(format string, args ...any) *Error {
	return newError(KindValidation, nil, format, args...)
}

func notFoundError(format string, args ...any) *Error {
	return newError(KindNotFound, nil, format, args...)
}

func forbiddenError(format string, args ...any) *Error {
	return newError(KindForbidden, nil, format, args...)
}

func insufficientSeatsError(remaining int) *Error {
	return newError(KindInsufficientSeats, nil, "only %d seats remaining", remaining)
}

func retryableConflict(err error, format string, args ...any) *Error {
	e := newError(KindConflict, err, format, args...)
	e.Retryable = true
	return e
}

func timedOutError(format string, args ...any) *Error {
	return newError(KindTimedOut, nil, format, args...)
}

// KindOf classifies err. Repository sentinels are mapped here so services can
// return them wrapped without translating at every call site.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindInternal
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, repository.ErrModifiedConcurrently),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrDuplicateIdentifier):
		return KindConflict
	}
	return KindInternal
}

// IsRetryable reports whether resubmitting the same request may succeed.
// Lost write races qualify; taking another passenger's email will fail again.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) && e.Retryable {
		return true
	}
	return errors.Is(err, repository.ErrModifiedConcurrently) ||
		errors.Is(err, repository.ErrDuplicateIdentifier)
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	switch {
	case errors.Is(err, repository.ErrModifiedConcurrently):
		return "reservation was modified concurrently, please retry"
	case errors.Is(err, repository.ErrDuplicateEmail):
		return "email is already registered to another passenger"
	case errors.Is(err, repository.ErrDuplicateIdentifier):
		return "identifier collision while confirming, please retry"
	}
	return "internal server error"
}

// asServiceError normalizes err leaving the service layer.
func asServiceError(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindOf(err), Message: MessageOf(err), Err: err}
}
