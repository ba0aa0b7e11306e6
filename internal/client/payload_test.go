package client

import (
	"errors"
	"testing"
)

func TestPayloadRoundTrip(t *testing.T) {
	for _, body := range []string{"", "x", "seed", "a#b"} {
		p := Payload(42, body)
		if err := VerifyPayload(42, p); err != nil {
			t.Errorf("VerifyPayload(42, %q) = %v", p, err)
		}
	}
}

func TestVerifyPayloadRejects(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		payload any
	}{
		{"other index", 7, Payload(8, "body")},
		{"not a string", 1, 12},
		{"nil", 1, nil},
		{"unstamped", 1, "body"},
		{"bad sum", 1, "body#zz"},
		{"tampered body", 3, "other" + Payload(3, "body")[4:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPayload(tt.index, tt.payload)
			if !errors.Is(err, ErrCorruptPayload) {
				t.Errorf("expected ErrCorruptPayload, got %v", err)
			}
		})
	}
}
