package service

import "testing"

func TestClampLimit(t *testing.T) {
	for in, want := range map[int]int{0: 10, -1: 1, -100: 1, 1: 1, 42: 42, 100: 100, 101: 100, 500: 100} {
		if got := ClampLimit(in); got != want {
			t.Fatalf("ClampLimit(%d): expected %d got %d", in, want, got)
		}
	}
}

func TestSanitizeUTF8(t *testing.T) {
	cases := map[string]string{
		"Büro":           "Büro",
		"a\xffb":         "ab",
		"nul\x00byte":    "nulbyte",
		"\xc3\x28\x00ok": "(ok",
	}
	for in, want := range cases {
		if got := sanitizeUTF8(in); got != want {
			t.Fatalf("sanitizeUTF8(%q): expected %q got %q", in, want, got)
		}
	}
}

func TestOptionalString(t *testing.T) {
	if optionalString("", "  ") != nil {
		t.Fatalf("expected nil for blank values")
	}
	if got := optionalString("", " tenant-a "); got == nil || *got != "tenant-a" {
		t.Fatalf("expected trimmed first value got %v", got)
	}
}
