package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(415) 555-0100", "+14155550100"},
		{"+31 6 12345678", "+31612345678"},
		{"  +14155550100  ", "+14155550100"},
		{"not a number", "not a number"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeE164(tt.in); got != tt.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
