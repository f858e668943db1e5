package nonconformity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrRecordRefRequired = errors.New("record ref is required")
	ErrInvalidRecordRef  = errors.New("invalid record ref")
)

// ParseRecordRef resolves a "nc#<id>" ref to the surrogate record id.
func ParseRecordRef(recordRef string) (uint64, error) {
	trimmed := strings.TrimSpace(recordRef)
	if trimmed == "" {
		return 0, ErrRecordRefRequired
	}
	if !strings.HasPrefix(trimmed, "nc#") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRecordRef, recordRef)
	}

	numText := strings.TrimPrefix(trimmed, "nc#")
	recordID, err := strconv.ParseUint(numText, 10, 64)
	if err != nil || recordID == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRecordRef, recordRef)
	}
	return recordID, nil
}

func FormatRecordRef(recordID uint64) string {
	return fmt.Sprintf("nc#%d", recordID)
}
