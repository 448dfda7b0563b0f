package failure

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"network", Network(errors.New("dial tcp: refused")), "Network error: dial tcp: refused"},
		{"http", HTTP("Failed to get verse", 404), "Failed to get verse: 404"},
		{"auth http", HTTP("Authentication failed", 401), "Authentication failed: 401"},
		{"empty response", EmptyResponse("Failed to get user info"), "Failed to get user info: Empty response"},
		{"empty", &Error{Kind: KindEmpty}, "Empty response"},
		{"format default", &Error{Kind: KindFormat}, "Invalid CSV format"},
		{"format cause", Format(errors.New("cannot find comma+quote pattern")), "cannot find comma+quote pattern"},
		{"not authenticated", NotAuthenticated(), "Not authenticated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentinelMatching(t *testing.T) {
	err := fmt.Errorf("fetching: %w", HTTP("Failed to get verse", 503))

	if !errors.Is(err, ErrHTTP) {
		t.Errorf("expected wrapped http error to match ErrHTTP")
	}
	if errors.Is(err, ErrNetwork) {
		t.Errorf("http error must not match ErrNetwork")
	}
	if got := StatusOf(err); got != 503 {
		t.Errorf("StatusOf = %d, want 503", got)
	}
	if got := KindOf(err); got != KindHTTP {
		t.Errorf("KindOf = %v, want %v", got, KindHTTP)
	}
	if got := KindOf(errors.New("plain")); got != KindOther {
		t.Errorf("KindOf(plain) = %v, want %v", got, KindOther)
	}
}

func TestNetworkUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	if !errors.Is(Network(cause), cause) {
		t.Errorf("network error should unwrap to its cause")
	}
}
