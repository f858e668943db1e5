package nonconformity

import "strings"

const (
	// MinDescriptionLen is the minimum meaningful description length.
	MinDescriptionLen = 10
	// MinActionLen applies to user-authored audit actions only;
	// system-authored entries are generated and exempt.
	MinActionLen = 5
)

// NormalizeCode trims and uppercases a business code. Codes are
// case-normalized once at creation and immutable afterwards.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCode checks the business code shape. Uniqueness is the
// repository's concern and is enforced at creation only.
func ValidateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return NewValidationError("code", "code is required")
	}
	return nil
}

// ValidateDescription checks the record description constraint.
func ValidateDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return NewValidationError("description", "description is required")
	}
	if len([]rune(trimmed)) < MinDescriptionLen {
		return NewValidationError("description", "description must be at least 10 characters")
	}
	return nil
}

// ValidateActionDescription checks a user-authored audit action.
func ValidateActionDescription(action string) error {
	trimmed := strings.TrimSpace(action)
	if trimmed == "" {
		return NewValidationError("action", "action description is required")
	}
	if len([]rune(trimmed)) < MinActionLen {
		return NewValidationError("action", "action description must be at least 5 characters")
	}
	return nil
}
