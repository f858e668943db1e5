package nonconformity

import "testing"

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  nc-2026-001 "); got != "NC-2026-001" {
		t.Fatalf("NormalizeCode() = %q", got)
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription("a description long enough"); err != nil {
		t.Fatalf("ValidateDescription() error = %v", err)
	}
	if err := ValidateDescription("exactly10c"); err != nil {
		t.Fatalf("ValidateDescription(min length) error = %v", err)
	}
	if err := ValidateDescription("short"); err == nil {
		t.Fatalf("ValidateDescription(short) expected error")
	}
	if err := ValidateDescription("   "); err == nil {
		t.Fatalf("ValidateDescription(blank) expected error")
	}
	// Rune-counted, not byte-counted.
	if err := ValidateDescription("piñón roto"); err != nil {
		t.Fatalf("ValidateDescription(multibyte) error = %v", err)
	}
}

func TestValidateActionDescription(t *testing.T) {
	if err := ValidateActionDescription("fixed"); err != nil {
		t.Fatalf("ValidateActionDescription() error = %v", err)
	}
	if err := ValidateActionDescription("abcd"); err == nil {
		t.Fatalf("ValidateActionDescription(short) expected error")
	}
	if err := ValidateActionDescription(""); err == nil {
		t.Fatalf("ValidateActionDescription(empty) expected error")
	}
}

func TestClassifyStatusLabel(t *testing.T) {
	cases := []struct {
		label string
		want  bool
	}{
		{"Closed", true},
		{"closed with remarks", true},
		{"Cerrada", true},
		{"CERRADO", true},
		{"Open", false},
		{"In progress", false},
		{"Reopened", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ClassifyStatusLabel(tc.label); got != tc.want {
			t.Fatalf("ClassifyStatusLabel(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}
