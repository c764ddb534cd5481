package java

import "testing"

func TestIs64BitArch(t *testing.T) {
	tests := []struct {
		arch string
		want bool
	}{
		{"amd64", true},
		{"x86_64", true},
		{"aarch64", true},
		{"arm64", true},
		{"x86", false},
		{"i386", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Is64BitArch(tt.arch); got != tt.want {
			t.Errorf("Is64BitArch(%q) = %v, want %v", tt.arch, got, tt.want)
		}
	}
}
