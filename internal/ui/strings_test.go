package ui

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"  padded  ", 10, "padded"},
		{"abcdefghij", 8, "abcde..."},
		{"abcdef", 2, "ab"},
		{"anything", 0, "anything"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestTruncateMiddle_KeepsFileName(t *testing.T) {
	got := truncateMiddle("/home/user/projects/screenshots/login-bug.png", 20)
	if len([]rune(got)) != 20 {
		t.Fatalf("truncateMiddle length = %d, want 20 (%q)", len([]rune(got)), got)
	}
	if got != "/home/…login-bug.png" {
		t.Fatalf("truncateMiddle = %q", got)
	}
	if got := truncateMiddle("a.png", 20); got != "a.png" {
		t.Fatalf("short value changed: %q", got)
	}
}

func TestExpandTabs(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"\tx", "    x"},
		{"ab\tx", "ab  x"},
		{"abcd\tx", "abcd    x"},
		{"none", "none"},
	}
	for _, tc := range cases {
		if got := expandTabs(tc.in, 4); got != tc.want {
			t.Fatalf("expandTabs(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Fatalf("padRight should not cut: %q", got)
	}
}
