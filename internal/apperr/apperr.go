package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUpstream
)

// Error carries a kind so handlers can map any failure to an HTTP status
// in one place. The wrapped cause, if any, is kept for logs only and never
// leaks into the response message.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// Message is the client-safe text.
func (e *Error) Message() string { return e.msg }

func Validation(msg string) error {
	return &Error{kind: KindValidation, msg: msg}
}

func NotFound(msg string) error {
	return &Error{kind: KindNotFound, msg: msg}
}

func Upstream(msg string, err error) error {
	return &Error{kind: KindUpstream, msg: msg, err: err}
}

func Internal(err error) error {
	return &Error{kind: KindInternal, msg: "Internal Server Error", err: err}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the text safe to put in the response envelope.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return "Internal Server Error"
}
