package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0722 123 456", "+40722123456"},
		{"+40 722 123 456", "+40722123456"},
		{"  ", ""},
		{"anonymous", "anonymous"},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskKeepsLastThreeDigits(t *testing.T) {
	got := Mask("0722123456")
	if got != "*********456" {
		t.Fatalf("expected masked number, got %q", got)
	}
	if Mask("12") != "**" {
		t.Fatalf("expected short input to be fully masked")
	}
}
