package auth

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDeviceKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Mozilla/5.0 (X11)", "Mozilla/5.0 (X11)"},
		{"collapses whitespace", "  Mozilla/5.0\t (X11)\n", "Mozilla/5.0 (X11)"},
		{"empty", "   ", "unknown"},
		{"drops invalid bytes", "curl/8.0\xff\xfe", "curl/8.0"},
		{"only invalid bytes", "\xc3", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeviceKey(tt.in); got != tt.want {
				t.Fatalf("DeviceKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeviceKey_Truncates(t *testing.T) {
	got := DeviceKey(strings.Repeat("a", 2000))
	if len(got) != maxDeviceKeyLength {
		t.Fatalf("len = %d, want %d", len(got), maxDeviceKeyLength)
	}
}

func TestDeviceKey_TruncatesOnRuneBoundary(t *testing.T) {
	got := DeviceKey(strings.Repeat("a", 511) + "é")
	if !utf8.ValidString(got) {
		t.Fatalf("key is not valid UTF-8: %q", got[500:])
	}
	if got != strings.Repeat("a", 511) {
		t.Fatalf("len = %d, want 511", len(got))
	}

	got = DeviceKey(strings.Repeat("日本", 200))
	if !utf8.ValidString(got) || len(got) > maxDeviceKeyLength {
		t.Fatalf("len = %d valid = %v", len(got), utf8.ValidString(got))
	}
}
