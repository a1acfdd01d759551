package render

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean string", "Abbey Road", "Abbey Road"},
		{"control chars removed", "Abbey\x00 Road\x1b[31m", "Abbey Road[31m"},
		{"tab preserved", "a\tb", "a\tb"},
		{"nbsp replaced", "a b", "a b"},
		{"invalid utf8 dropped", "a\xffb", "ab"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"fits", "short", 10, "short"},
		{"truncated", "a very long album title", 10, "a very ..."},
		{"exact", "12345", 5, "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.width); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
		})
	}
}

func TestRow(t *testing.T) {
	got := Row("left", "right", 15)
	if got != "left      right" {
		t.Errorf("Row = %q", got)
	}
	if len(got) != 15 {
		t.Errorf("Row width = %d, want 15", len(got))
	}

	// Overflowing content still gets a single separating space.
	got = Row("0123456789", "0123456789", 5)
	if got != "0123456789 0123456789" {
		t.Errorf("Row overflow = %q", got)
	}
}

func TestPad(t *testing.T) {
	if got := Pad("ab", 5); got != "ab   " {
		t.Errorf("Pad = %q", got)
	}
}

func TestSeparator(t *testing.T) {
	got := Separator(4)
	if got != "────" {
		t.Errorf("Separator(4) = %q", got)
	}
}
