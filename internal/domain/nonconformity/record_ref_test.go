package nonconformity

import (
	"errors"
	"testing"
)

func TestParseRecordRef(t *testing.T) {
	id, err := ParseRecordRef("nc#42")
	if err != nil {
		t.Fatalf("ParseRecordRef() error = %v", err)
	}
	if id != 42 {
		t.Fatalf("ParseRecordRef() id = %d, want 42", id)
	}

	if _, err := ParseRecordRef("  nc#7  "); err != nil {
		t.Fatalf("ParseRecordRef(padded) error = %v", err)
	}

	if _, err := ParseRecordRef(""); !errors.Is(err, ErrRecordRefRequired) {
		t.Fatalf("ParseRecordRef(empty) error = %v, want ErrRecordRefRequired", err)
	}

	for _, bad := range []string{"42", "nc#", "nc#0", "nc#abc", "NC#42", "issue#1"} {
		if _, err := ParseRecordRef(bad); !errors.Is(err, ErrInvalidRecordRef) {
			t.Fatalf("ParseRecordRef(%q) error = %v, want ErrInvalidRecordRef", bad, err)
		}
	}
}

func TestFormatRecordRefRoundTrip(t *testing.T) {
	ref := FormatRecordRef(9)
	if ref != "nc#9" {
		t.Fatalf("FormatRecordRef() = %q", ref)
	}
	id, err := ParseRecordRef(ref)
	if err != nil || id != 9 {
		t.Fatalf("round trip id = %d, err = %v", id, err)
	}
}
