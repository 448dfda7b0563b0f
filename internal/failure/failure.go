package failure

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a failed call. Every kind is terminal.
type Kind int

const (
	KindOther Kind = iota
	KindNetwork
	KindHTTP
	KindEmptyResponse
	KindEmpty
	KindFormat
	KindNotAuthenticated
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindEmptyResponse:
		return "empty_response"
	case KindEmpty:
		return "empty"
	case KindFormat:
		return "format"
	case KindNotAuthenticated:
		return "not_authenticated"
	}
	return "other"
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrNetwork          = &Error{Kind: KindNetwork}
	ErrHTTP             = &Error{Kind: KindHTTP}
	ErrEmptyResponse    = &Error{Kind: KindEmptyResponse}
	ErrEmpty            = &Error{Kind: KindEmpty}
	ErrFormat           = &Error{Kind: KindFormat}
	ErrNotAuthenticated = &Error{Kind: KindNotAuthenticated}
)

// Error is the single error type returned by the verse clients.
//
// Op is the user-facing prefix of the failing operation, for example
// "Failed to get verse" or "Authentication failed". The rendered messages
// keep the wording the error classifier in package normalize matches on.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		if e.Err == nil {
			return "Network error"
		}
		return fmt.Sprintf("Network error: %v", e.Err)
	case KindHTTP:
		return fmt.Sprintf("%s: %d", e.op(), e.Status)
	case KindEmptyResponse:
		return fmt.Sprintf("%s: Empty response", e.op())
	case KindEmpty:
		return "Empty response"
	case KindFormat:
		if e.Err == nil {
			return "Invalid CSV format"
		}
		return e.Err.Error()
	case KindNotAuthenticated:
		return "Not authenticated"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.op()
}

func (e *Error) op() string {
	if e.Op == "" {
		return "Request failed"
	}
	return e.Op
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Status == 0 && t.Err == nil && t.Kind == e.Kind
}

func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

func HTTP(op string, status int) *Error {
	return &Error{Kind: KindHTTP, Op: op, Status: status}
}

func EmptyResponse(op string) *Error {
	return &Error{Kind: KindEmptyResponse, Op: op}
}

func Format(err error) *Error {
	return &Error{Kind: KindFormat, Err: err}
}

func NotAuthenticated() *Error {
	return &Error{Kind: KindNotAuthenticated}
}

// KindOf returns the kind of the first *Error in err's chain, or KindOther.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindOther
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Status
	}
	return 0
}
