// Package normalize turns transport results into typed values or classified
// failures, and maps failure text onto the short messages shown to users.
package normalize

import (
	"bytes"
	"encoding/json"
	"strings"

	"derrclan.com/verse-sdk/internal/failure"
	"derrclan.com/verse-sdk/internal/transport"
)

// Category selects the user-facing message for a failure.
type Category int

const (
	Other Category = iota
	Network
	Auth
)

func (c Category) String() string {
	switch c {
	case Network:
		return "network"
	case Auth:
		return "auth"
	}
	return "other"
}

const (
	NetworkMessage = "Network error. Please check your connection and try again."
	AuthMessage    = "Authentication failed. Please check your credentials."
)

// Classify categorizes msg by case-sensitive substring match. Network wins
// over Auth when both match.
func Classify(msg string) Category {
	switch {
	case strings.Contains(msg, "Network") || strings.Contains(msg, "connection"):
		return Network
	case strings.Contains(msg, "Authentication") || strings.Contains(msg, "auth"):
		return Auth
	}
	return Other
}

// UserMessage returns the message to display for a failure described by msg.
// Messages in the Other category pass through unchanged.
func UserMessage(msg string) string {
	switch Classify(msg) {
	case Network:
		return NetworkMessage
	case Auth:
		return AuthMessage
	}
	return msg
}

// ErrorMessage is UserMessage applied to err's text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return UserMessage(err.Error())
}

// Decode converts the outcome of a transport call into a T decoded from a
// JSON body. op prefixes HTTP and empty-response failures.
//
//	transport error   -> failure.KindNetwork
//	non-2xx           -> failure.KindHTTP
//	2xx, no/bad body  -> failure.KindEmptyResponse
func Decode[T any](resp *transport.Response, err error, op string) (*T, error) {
	if err != nil {
		return nil, failure.Network(err)
	}
	if !resp.OK() {
		return nil, failure.HTTP(op, resp.StatusCode)
	}

	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, failure.EmptyResponse(op)
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		e := failure.EmptyResponse(op)
		e.Err = err
		return nil, e
	}
	return &v, nil
}
