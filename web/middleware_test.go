package web

import "testing"

// TestNormalizeUserID tests the one-layer unwrap of re-encoded cookie values.
func TestNormalizeUserID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain id untouched", "user_jo%40example.com", "user_jo%40example.com"},
		{"double-encoded unwraps once", "user_jo%2540example.com", "user_jo%40example.com"},
		{"no percent at all", "user_plain", "user_plain"},
		{"empty", "", ""},
		{"malformed stays as-is", "user_%25%zz", "user_%25%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeUserID(tt.raw); got != tt.want {
				t.Errorf("normalizeUserID(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
