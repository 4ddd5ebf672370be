package auth

import "testing"

func TestAuthenticate(t *testing.T) {
	gate := NewGate("secret-key")

	tests := []struct {
		name      string
		presented string
		expected  bool
	}{
		{"Correct key", "secret-key", true},
		{"Wrong key", "other-key", false},
		{"Empty key", "", false},
		{"Key with suffix", "secret-key ", false},
		{"Case sensitive", "Secret-Key", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.Authenticate(tt.presented); got != tt.expected {
				t.Errorf("Authenticate(%q) = %v, want %v", tt.presented, got, tt.expected)
			}
		})
	}
}

func TestAuthenticateUnconfigured(t *testing.T) {
	gate := NewGate("")
	if gate.Authenticate("") {
		t.Error("unconfigured gate accepted an empty key")
	}
	if gate.Authenticate("anything") {
		t.Error("unconfigured gate accepted a key")
	}
}
