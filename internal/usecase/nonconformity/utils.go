package nonconformity

import (
	"strconv"
	"strings"
	"time"

	domain "nctrack/internal/domain/nonconformity"
)

func parseRecordRef(recordRef string) (uint64, error) {
	return domain.ParseRecordRef(recordRef)
}

func formatRecordRef(recordID uint64) string {
	return domain.FormatRecordRef(recordID)
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// actorPtr maps a blank acting identity to nil so the audit row keeps
// a null actor instead of an empty label.
func actorPtr(actor string) *string {
	trimmed := strings.TrimSpace(actor)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// systemAction builds a system-authored audit text, attributing the
// actor when one is known.
func systemAction(action string, actor string) string {
	trimmed := strings.TrimSpace(actor)
	if trimmed == "" {
		return action
	}
	return action + " by " + trimmed
}

// parseIDFilter applies the lenient input policy: a value that is not
// a well-formed positive integer is treated as no filter, not an error.
func parseIDFilter(raw string) *uint64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	id, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	return &id
}

// parseDayFilter accepts a calendar day in YYYY-MM-DD form; anything
// else imposes no constraint, matching the id-filter policy.
func parseDayFilter(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", trimmed); err != nil {
		return ""
	}
	return trimmed
}

func derefString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func cacheRecordStatusKey(recordRef string) string {
	return "record_status:" + recordRef
}
