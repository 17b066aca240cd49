// Package apperr defines the error taxonomy shared by every service. Handlers
// translate kinds to HTTP statuses; services never inspect status codes.
package apperr

import "errors"

type Kind int

const (
	KindPermission  Kind = iota + 1 // caller lacks a required capability
	KindValidation                  // malformed input
	KindState                       // operation illegal in the entity's current state
	KindNotFound                    // referenced entity absent
	KindConflict                    // concurrent-write collision, caller may retry
	KindTransaction                 // underlying transactional failure, fatal to this attempt
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Permission(message string) *Error  { return New(KindPermission, message) }
func Validation(message string) *Error  { return New(KindValidation, message) }
func State(message string) *Error       { return New(KindState, message) }
func NotFound(message string) *Error    { return New(KindNotFound, message) }
func Conflict(message string) *Error    { return New(KindConflict, message) }
func Transaction(message string) *Error { return New(KindTransaction, message) }

// KindOf returns the kind carried by err, or 0 for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to its HTTP status. Unclassified errors are 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindPermission:
		return 403
	case KindValidation, KindState:
		return 400
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	default:
		return 500
	}
}
